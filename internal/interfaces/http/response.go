package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
)

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.OKResponse{OK: true, Data: data})
}

func okPage(c *fiber.Ctx, data any, page dto.PageResponse) error {
	return c.Status(fiber.StatusOK).JSON(dto.OKResponse{OK: true, Data: data, Page: &page})
}

// parseBody decodifica el JSON del cuerpo; un cuerpo ilegible es un error de validación.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("body", "cuerpo inválido: "+err.Error())
	}
	return nil
}

// pathID lee un identificador de la ruta. Un UUID mal formado no puede existir: 404.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%s %q: %w", name, id, domain.ErrNotFound)
	}
	return id, nil
}

// refIDs exige que los identificadores referenciados en un body sean UUID; vacíos se dejan al validador.
func refIDs(ids map[string]string) error {
	for field, id := range ids {
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("%s %q: %w", field, id, domain.ErrNotFound)
		}
	}
	return nil
}

func queryPage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, domain.Invalid("query", "paginación inválida")
	}
	page.DefaultPage()
	return page, nil
}

func queryBool(c *fiber.Ctx, key string, def bool) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, domain.Invalid(key, "debe ser true o false")
	}
	return v, nil
}

// queryDate lee una fecha opcional (2006-01-02 o RFC3339).
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := dto.ParseDate(raw)
	if err != nil {
		return nil, domain.Invalid(key, err.Error())
	}
	t := d.Time
	return &t, nil
}

// queryDateRange lee from/to; to incluye el día completo.
func queryDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = queryDate(c, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = queryDate(c, "to"); err != nil {
		return nil, nil, err
	}
	if to != nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

// attachment responde un archivo descargable.
func attachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(data)
}
