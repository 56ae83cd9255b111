package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hotwellkz/warehouse-api/internal/application/dto"
	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// requestError error de forma del request (cuerpo ilegible o validación).
type requestError struct {
	code    string
	message string
	fields  []string
}

func (e *requestError) Error() string { return e.message }

type errorMapping struct {
	status  int
	message string
}

// Mensajes para el usuario final; la app muestra los errores en ruso.
var errorMessages = map[domain.Kind]errorMapping{
	domain.KindNotFound:               {fiber.StatusNotFound, "Запись не найдена"},
	domain.KindInvalidInput:           {fiber.StatusBadRequest, "Некорректный запрос"},
	domain.KindInvalidQuantity:        {fiber.StatusBadRequest, "Количество должно быть больше нуля"},
	domain.KindInvalidPrice:           {fiber.StatusBadRequest, "Цена не может быть отрицательной"},
	domain.KindInvalidValue:           {fiber.StatusBadRequest, "Значения не могут быть отрицательными"},
	domain.KindInsufficientStock:      {fiber.StatusConflict, "Недостаточно товара на складе"},
	domain.KindNoOp:                   {fiber.StatusConflict, "Изменений нет"},
	domain.KindConcurrentModification: {fiber.StatusConflict, "Товар изменён другим пользователем, повторите попытку"},
	domain.KindStorageUnavailable:     {fiber.StatusServiceUnavailable, "Хранилище временно недоступно"},
	domain.KindSuperseded:             {fiber.StatusConflict, "Операцию нельзя отменить: после неё была ручная корректировка"},
	domain.KindDuplicate:              {fiber.StatusConflict, "Запись уже существует"},
	domain.KindUnauthorized:           {fiber.StatusUnauthorized, "Требуется авторизация"},
}

// writeError traduce err a status HTTP y dto.ErrorResponse.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: re.code, Message: re.message, Fields: re.fields})
	}
	kind := domain.KindOf(err)
	m, ok := errorMessages[kind]
	if !ok {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Внутренняя ошибка сервера"})
	}
	if m.status >= fiber.StatusInternalServerError {
		log.Warn().Err(err).Str("path", c.Path()).Msg("almacenamiento no disponible")
	}
	return c.Status(m.status).JSON(dto.ErrorResponse{Code: string(kind), Message: m.message})
}

// bindBody parsea el cuerpo JSON y lo valida con las etiquetas validate.
func bindBody(c *fiber.Ctx, v *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{code: "INVALID_BODY", message: "Некорректное тело запроса"}
	}
	if err := v.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &requestError{code: "VALIDATION", message: err.Error()}
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
		}
		return &requestError{code: "VALIDATION", message: "Проверьте поля: " + strings.Join(fields, ", "), fields: names(verrs)}
	}
	return nil
}

// pageOf lee limit/offset del query con valores por defecto.
func pageOf(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}.Normalize()
}

func names(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}
