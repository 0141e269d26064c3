package social

import (
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	auth "github.com/goliatone/go-social-auth"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController exposes the social login and token lifecycle flows as
// a JSON API.
type HTTPController struct {
	social *SocialAuthenticator
	auther *auth.Auther
	logger auth.Logger
	debug  bool
}

// NewHTTPController creates the controller. The Auther is optional,
// without it the refresh and logout routes are not registered.
func NewHTTPController(social *SocialAuthenticator, auther *auth.Auther) *HTTPController {
	return &HTTPController{
		social: social,
		auther: auther,
		logger: auth.DefaultLogger(),
	}
}

func (c *HTTPController) WithLogger(logger auth.Logger) *HTTPController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithDebug enables payload dumps on the debug logger.
func (c *HTTPController) WithDebug(debug bool) *HTTPController {
	c.debug = debug
	return c
}

// RegisterRoutes mounts the routes on the given group, typically
// rooted at /auth/social.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	group.Get("/providers", c.ListProviders)
	group.Get("/signup/fields", c.SignupFields)
	group.Post("/signup/complete", c.CompleteSignup)
	group.Post("/:provider/login", c.Login)

	if c.auther != nil {
		group.Post("/token/refresh", c.Refresh)
		group.Post("/logout", c.Logout)
	}
}

// ListProviders returns the registered provider kinds.
func (c *HTTPController) ListProviders(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]any{
		"providers": c.social.Providers(),
	})
}

// SignupFields returns the completion field catalog.
func (c *HTTPController) SignupFields(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]any{
		"fields": SignupFields(),
	})
}

// LoginRequest carries the platform credential.
type LoginRequest struct {
	AccessToken string `json:"access_token"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccessToken, validation.Required),
	)
}

// Login verifies a platform credential and either returns a token
// pair or the SIGNUP_REQUIRED handshake.
func (c *HTTPController) Login(ctx router.Context) error {
	kind, ok := auth.ParseProviderKind(ctx.Param("provider"))
	if !ok {
		return c.renderError(ctx, ErrProviderNotFound.Clone().WithMetadata(map[string]any{
			"provider": ctx.Param("provider"),
		}))
	}

	payload := LoginRequest{}
	if err := ctx.Bind(&payload); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid login payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload").
			WithCode(goerrors.CodeBadRequest))
	}

	result, err := c.social.Login(ctx.Context(), kind, payload.AccessToken)
	if err != nil {
		return c.renderError(ctx, err)
	}

	if c.debug {
		c.logger.Debug("social login result %s", print.MaybePrettyJSON(result))
	}

	return ctx.JSON(router.StatusOK, result)
}

// CompleteSignup finishes the two phase signup.
func (c *HTTPController) CompleteSignup(ctx router.Context) error {
	payload := SignupRequest{}
	if err := ctx.Bind(&payload); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid signup payload").
			WithCode(goerrors.CodeBadRequest))
	}

	result, err := c.social.CompleteSignup(ctx.Context(), payload)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, result)
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// Refresh rotates a refresh token into a fresh pair.
func (c *HTTPController) Refresh(ctx router.Context) error {
	payload := RefreshRequest{}
	if err := ctx.Bind(&payload); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid refresh payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid refresh payload").
			WithCode(goerrors.CodeBadRequest))
	}

	pair, err := c.auther.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"tokens": pair,
	})
}

// LogoutRequest carries the session tokens to revoke.
type LogoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the presented tokens for their remaining lifetime.
func (c *HTTPController) Logout(ctx router.Context) error {
	payload := LogoutRequest{}
	if err := ctx.Bind(&payload); err != nil {
		return c.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid logout payload").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := c.auther.Logout(ctx.Context(), payload.AccessToken, payload.RefreshToken); err != nil {
		return c.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"status": "logged_out",
	})
}

func (c *HTTPController) renderError(ctx router.Context, err error) error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		status := int(rich.Code)
		if status < 400 || status > 599 {
			status = router.StatusInternalServerError
		}
		body := map[string]any{
			"error": rich.Message,
			"code":  rich.TextCode,
		}
		if len(rich.Metadata) > 0 {
			body["metadata"] = rich.Metadata
		}
		return ctx.JSON(status, body)
	}

	c.logger.Error("social controller unhandled error", "error", err)
	return ctx.JSON(router.StatusInternalServerError, map[string]any{
		"error": "internal error",
	})
}
