package devbackend

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/dmitrijs2005/launchpad/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const localUserID = "user_id"

// Config configures a Server.
type Config struct {
	// Secret signs access tokens (HS256).
	Secret   []byte
	TokenTTL time.Duration
	Logger   logging.Logger
	Now      func() time.Time
}

// Server serves the platform HTTP API from a Store.
type Server struct {
	store *Store
	cfg   Config
	app   *fiber.App
}

func New(store *Store, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	s := &Server{store: store, cfg: cfg}
	s.app = fiber.New(fiber.Config{
		AppName:               "launchpad-devbackend",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	app := s.app
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(s.requestLogger)

	app.Post("/auth/login", s.login)

	app.Get("/profile", s.authenticate, s.getProfile)
	app.Post("/profile", s.authenticate, s.saveProfile(true))
	app.Put("/profile", s.authenticate, s.saveProfile(false))

	api := app.Group("/api", s.authenticate)
	api.Post("/connection-requests", s.sendRequest)
	api.Get("/connection-requests/received", s.receivedRequests)
	api.Post("/connection-requests/:id/respond", s.respond)
	api.Get("/connections", s.connections)
	api.Delete("/connections/:id", s.disconnect)
	api.Post("/team-search", s.teamSearch)
	api.Post("/conversations", s.createConversation)
	api.Get("/messages/:id", s.messages)
	api.Post("/messages", s.sendMessage)
}

// App exposes the fiber application, e.g. for app.Test in tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Serve serves on an existing listener.
func (s *Server) Serve(ln net.Listener) error { return s.app.Listener(ln) }

func (s *Server) Shutdown(ctx context.Context) error { return s.app.ShutdownWithContext(ctx) }

// IssueToken returns an access token for userID.
func (s *Server) IssueToken(userID string) (string, error) {
	return GenerateToken(userID, s.cfg.Secret, s.cfg.TokenTTL, s.cfg.Now())
}

func errorHandler(c *fiber.Ctx, err error) error {
	status, detail := fiber.StatusInternalServerError, "Internal server error"
	var se *Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &se):
		status, detail = se.Status, se.Detail
	case errors.As(err, &fe):
		status, detail = fe.Code, fe.Message
	}
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	s.cfg.Logger.Info(c.UserContext(), "request",
		"request_id", rid,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"elapsed", time.Since(start),
	)
	return nil
}

func (s *Server) authenticate(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}
	id, err := UserIDFromToken(strings.TrimSpace(token), s.cfg.Secret)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return fiber.NewError(fiber.StatusUnauthorized, "Token expired")
		}
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	if !s.store.HasUser(id) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	c.Locals(localUserID, id)
	return c.Next()
}

func me(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

func (s *Server) login(c *fiber.Ctx) error {
	var in models.LoginInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	id, err := s.store.Authenticate(in.Email, in.Password)
	if err != nil {
		return err
	}
	token, err := s.IssueToken(id)
	if err != nil {
		return err
	}
	return c.JSON(models.LoginResult{AccessToken: token, TokenType: "bearer", UserID: id})
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	p, err := s.store.Profile(me(c))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) saveProfile(create bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in models.Profile
		if err := parseBody(c, &in); err != nil {
			return err
		}
		p, err := s.store.SaveProfile(me(c), in, create)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

func (s *Server) sendRequest(c *fiber.Ctx) error {
	var in models.SendRequestInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	res, err := s.store.SendRequest(me(c), in.ReceiverID, in.Message)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) receivedRequests(c *fiber.Ctx) error {
	return c.JSON(s.store.Received(me(c)))
}

func (s *Server) respond(c *fiber.Ctx) error {
	var in models.RespondInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	msg, err := s.store.Respond(me(c), c.Params("id"), in.Action)
	if err != nil {
		return err
	}
	return c.JSON(models.MessageResponse{Message: msg})
}

func (s *Server) connections(c *fiber.Ctx) error {
	return c.JSON(models.ConnectionsList{Connections: s.store.Connections(me(c))})
}

func (s *Server) disconnect(c *fiber.Ctx) error {
	if err := s.store.Disconnect(me(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(models.MessageResponse{Message: "Connection removed"})
}

func (s *Server) teamSearch(c *fiber.Ctx) error {
	var in models.SearchRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	res, err := s.store.Search(me(c), in)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) createConversation(c *fiber.Ctx) error {
	var in models.CreateConversationInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	conv, err := s.store.OpenConversation(me(c), in.TargetUserID)
	if err != nil {
		return err
	}
	return c.JSON(conv)
}

func (s *Server) messages(c *fiber.Ctx) error {
	msgs, err := s.store.Messages(me(c), c.Params("id"), c.QueryInt("skip", 0), c.QueryInt("limit", 50))
	if err != nil {
		return err
	}
	return c.JSON(models.MessagesPage{Messages: msgs})
}

func (s *Server) sendMessage(c *fiber.Ctx) error {
	var in models.SendMessageInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	m, err := s.store.PostMessage(me(c), in)
	if err != nil {
		return err
	}
	return c.JSON(m)
}
