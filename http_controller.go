package auth

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the JSON auth endpoints on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Signup, controller.SignupPost).
		SetName("signup.post")

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("login.post")

	app.
		Post(controller.Routes.VerifyOTP, controller.VerifyOTPPost).
		SetName("verify-otp.post")
}

type AuthControllerRoutes struct {
	Signup    string
	Login     string
	VerifyOTP string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Flow   *AuthFlow
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithAuthFlow(flow *AuthFlow) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Flow = flow
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Signup:    "/signup",
			Login:     "/login",
			VerifyOTP: "/verify-otp",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Flow == nil {
		panic("Missing AuthFlow in auth controller...")
	}

	return c
}

// SignupRequest payload
type SignupRequest struct {
	Email                string `form:"email" json:"email"`
	Password             string `form:"password" json:"password"`
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation"`
	Username             string `form:"username" json:"username"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.PasswordConfirmation,
			validation.Required,
			validation.By(validateStringEquals(r.Password)),
		),
		validation.Field(&r.Username, validation.Required, validation.Length(1, 200)),
	)
}

func (a *AuthController) SignupPost(ctx router.Context) error {
	payload := new(SignupRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload: ", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload: ", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    "validation failed",
			"validation": formatValidationErrors(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	user, err := a.Flow.Signup(ctx.Context(), SignupInput{
		Email:                payload.Email,
		Password:             payload.Password,
		PasswordConfirmation: payload.PasswordConfirmation,
		Username:             payload.Username,
	})
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"message":      "account created",
		"user_details": user,
	})
}

// AuthLoginRequest payload
type AuthLoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r AuthLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(AuthLoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    "validation failed",
			"validation": formatValidationErrors(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	state, err := a.Flow.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "verification code sent",
		"state":   state,
	})
}

// VerifyOTPRequest payload
type VerifyOTPRequest struct {
	Email string `form:"email" json:"email"`
	Code  string `form:"code" json:"code"`
}

// Validate will run validation rules
func (r VerifyOTPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

func (a *AuthController) VerifyOTPPost(ctx router.Context) error {
	payload := new(VerifyOTPRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("verify otp parse payload: ", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    "validation failed",
			"validation": formatValidationErrors(err),
		})
	}

	session, err := a.Flow.VerifyOTP(ctx.Context(), payload.Email, payload.Code)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message":      "authenticated",
		"token":        session.Token,
		"user_details": session.User,
	})
}

// renderError maps domain errors to HTTP responses. Internal failures
// keep their details out of the body, only the category reaches the
// client.
func (a *AuthController) renderError(ctx router.Context, err error) error {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		a.Logger.Error("auth controller unexpected error: ", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]any{
			"message": "internal server error",
		})
	}

	switch rich.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": rich.Message,
		})
	case goerrors.CategoryAuth:
		return ctx.JSON(router.StatusUnauthorized, map[string]any{
			"message": rich.Message,
		})
	case goerrors.CategoryConflict:
		return ctx.JSON(router.StatusConflict, map[string]any{
			"message": rich.Message,
		})
	case goerrors.CategoryRateLimit:
		return ctx.JSON(router.StatusTooManyRequests, map[string]any{
			"message": rich.Message,
		})
	default:
		a.Logger.Error("auth controller error: ", "error", err)
		return ctx.JSON(router.StatusInternalServerError, map[string]any{
			"message": "internal server error",
		})
	}
}

func formatValidationErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}

func validateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}
