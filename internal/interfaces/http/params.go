package http

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
)

const dayLayout = "2006-01-02"

// timeQuery lee un parámetro RFC3339 o YYYY-MM-DD. Con upper=true una fecha sin hora
// se toma como el inicio del día siguiente, porque los rangos son [from, to).
func timeQuery(c *fiber.Ctx, key string, loc *time.Location, upper bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation(dayLayout, raw, loc)
	if err != nil {
		return nil, domain.NewValidationError(key, "formato esperado RFC3339 o YYYY-MM-DD")
	}
	if upper {
		day = day.AddDate(0, 0, 1)
	}
	return &day, nil
}

func pageQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}

// pathParam devuelve el parámetro de ruta decodificado (nombres con espacios o acentos).
func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
