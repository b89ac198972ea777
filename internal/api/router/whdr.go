package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/iiw-bench/internal/apperr"
	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/iiw-bench/internal/judgment"
	"github.com/DjordjeVuckovic/iiw-bench/internal/prediction"
	"github.com/DjordjeVuckovic/iiw-bench/internal/reflectance"
	"github.com/DjordjeVuckovic/iiw-bench/internal/whdr"
	"github.com/labstack/echo/v4"
)

var imageIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type MethodInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

type WHDRResponse struct {
	ImageID    string      `json:"image_id,omitempty"`
	Method     string      `json:"method,omitempty"`
	Delta      float64     `json:"delta"`
	ColorSpace string      `json:"color_space,omitempty"`
	Result     whdr.Result `json:"result"`
}

type EvaluateRequest struct {
	Judgements  json.RawMessage  `json:"judgements"`
	Reflectance *reflectance.Map `json:"reflectance"`
	Delta       *float64         `json:"delta"`
}

type WHDRRouter struct {
	e          *echo.Echo
	judgements judgment.Source
	loaders    map[string]prediction.Loader
	methods    []MethodInfo
	defaults   runner.Config
}

type WHDRRouterOption func(*WHDRRouter)

// WithDefaults sets the delta and color space used when a request omits them.
func WithDefaults(cfg runner.Config) WHDRRouterOption {
	return func(r *WHDRRouter) { r.defaults = cfg }
}

// WithTitles attaches display titles to the method listing.
func WithTitles(titles map[string]string) WHDRRouterOption {
	return func(r *WHDRRouter) {
		for i := range r.methods {
			if t, ok := titles[r.methods[i].Name]; ok && t != "" {
				r.methods[i].Title = t
			}
		}
	}
}

func NewWHDRRouter(
	e *echo.Echo,
	judgements judgment.Source,
	loaders map[string]prediction.Loader,
	opts ...WHDRRouterOption,
) *WHDRRouter {
	r := &WHDRRouter{
		e:          e,
		judgements: judgements,
		loaders:    loaders,
		defaults:   runner.DefaultConfig(),
	}
	for name := range loaders {
		r.methods = append(r.methods, MethodInfo{Name: name, Title: name})
	}
	slices.SortFunc(r.methods, func(a, b MethodInfo) int { return strings.Compare(a.Name, b.Name) })
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *WHDRRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.GET("/methods", r.listMethodsHandler)
	g.GET("/methods/:method/images/:id/whdr", r.imageWHDRHandler)
	g.POST("/whdr", r.evaluateHandler)
}

func (r *WHDRRouter) listMethodsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, r.methods)
}

func (r *WHDRRouter) imageWHDRHandler(c echo.Context) error {
	name := c.Param("method")
	id := c.Param("id")

	loader, ok := r.loaders[name]
	if !ok {
		return apperr.NewNotFound("method", name, nil)
	}
	if !imageIDPattern.MatchString(id) {
		return apperr.NewValidation(fmt.Sprintf("invalid image id %q", id))
	}

	delta, err := r.parseDelta(c.QueryParam("delta"))
	if err != nil {
		return err
	}
	space := r.defaults.Space
	if s := c.QueryParam("space"); s != "" {
		if space, err = reflectance.ParseColorSpace(s); err != nil {
			return err
		}
	}

	res, err := runner.EvaluateImage(c.Request().Context(), r.judgements, loader, id, delta, space)
	switch {
	case err == nil:
	case errors.Is(err, prediction.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return apperr.NewNotFound("image", id, err)
	case errors.Is(err, prediction.ErrUnsupportedSpace):
		return apperr.NewValidationWrap("color space", err)
	case errors.Is(err, judgment.ErrMalformed),
		errors.Is(err, judgment.ErrUnknownPoint),
		errors.Is(err, whdr.ErrOutOfBounds):
		return apperr.NewValidationWrap(fmt.Sprintf("judgements for image %q", id), err)
	default:
		return fmt.Errorf("evaluate %s/%s: %w", name, id, err)
	}

	return c.JSON(http.StatusOK, WHDRResponse{
		ImageID:    id,
		Method:     name,
		Delta:      delta,
		ColorSpace: string(space),
		Result:     res,
	})
}

func (r *WHDRRouter) evaluateHandler(c echo.Context) error {
	var req EvaluateRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return apperr.NewValidationWrap("malformed request body", err)
	}
	if len(req.Judgements) == 0 {
		return apperr.NewValidation("judgements are required")
	}
	if req.Reflectance == nil {
		return apperr.NewValidation("reflectance is required")
	}
	if err := req.Reflectance.Validate(); err != nil {
		return err
	}

	set, err := judgment.Parse(req.Judgements)
	if err != nil {
		return apperr.NewValidationWrap("judgements", err)
	}

	delta := r.defaults.Delta
	if req.Delta != nil {
		delta = *req.Delta
	}

	res, err := whdr.Compute(req.Reflectance, set, delta)
	if err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			return err
		}
		return apperr.NewValidationWrap("evaluate", err)
	}

	return c.JSON(http.StatusOK, WHDRResponse{Delta: delta, Result: res})
}

func (r *WHDRRouter) parseDelta(raw string) (float64, error) {
	if raw == "" {
		return r.defaults.Delta, nil
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.NewValidationWrap("delta must be a number", err)
	}
	if d < 0 || math.IsNaN(d) {
		return 0, apperr.NewValidation("delta must be non-negative")
	}
	return d, nil
}
