package controller

import (
	"fmt"

	"watch-party-be/internal/dto"
	"watch-party-be/internal/pkg/apperrors"
	"watch-party-be/internal/pkg/identity"
	"watch-party-be/internal/pkg/serverutils"
	"watch-party-be/internal/service"
	internalWS "watch-party-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	GetFriends(ctx *fiber.Ctx) error
	ViewSessions(ctx *fiber.Ctx) error
	JoinSession(ctx *fiber.Ctx) error
}

type sessionController struct {
	service  service.ISessionService
	manager  *internalWS.Manager
	identity *identity.Client
}

func NewSessionController(service service.ISessionService, manager *internalWS.Manager, identityClient *identity.Client) ISessionController {
	return &sessionController{
		service:  service,
		manager:  manager,
		identity: identityClient,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	h.Get("/test", c.Health)
	h.Get("/view_sessions", c.ViewSessions)
	h.Get("/ws/join_session/:session_id", c.JoinSession)

	auth := serverutils.BearerAuthMiddleware(c.identity)
	h.Post("/create_session", auth, c.CreateSession)
	h.Get("/get_friends", auth, c.GetFriends)
}

func (c *sessionController) Health(ctx *fiber.Ctx) error {
	return ctx.SendString("App is healthy")
}

func (c *sessionController) CreateSession(ctx *fiber.Ctx) error {
	user := ctx.Locals(serverutils.LocalAuthUser).(*dto.AuthUserResponse)
	token := ctx.Locals(serverutils.LocalAuthToken).(string)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid request body: %w", apperrors.ErrValidation)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	friends, err := c.identity.Friends(ctx.UserContext(), token)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), user, friends, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *sessionController) GetFriends(ctx *fiber.Ctx) error {
	token := ctx.Locals(serverutils.LocalAuthToken).(string)

	friends, err := c.identity.Friends(ctx.UserContext(), token)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User friends", fiber.Map{"friends": friends}))
}

// ViewSessions is a diagnostic dump of the process-local registry.
func (c *sessionController) ViewSessions(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Active sessions", c.service.ActiveSessions()))
}

// JoinSession resolves the target session before the websocket upgrade so a
// missing session is refused with a 404 and never accepted.
func (c *sessionController) JoinSession(ctx *fiber.Ctx) error {
	sessionID, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fmt.Errorf("invalid session id: %w", apperrors.ErrValidation)
	}

	session, err := c.service.Resolve(ctx.UserContext(), sessionID)
	if err != nil {
		return err
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.manager.Serve(session, conn)
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
