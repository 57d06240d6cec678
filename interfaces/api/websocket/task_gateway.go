package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/time/rate"

	"task-tracker-api/domain/apperrors"
	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/ports"
	"task-tracker-api/domain/services"
	wsinfra "task-tracker-api/infrastructure/websocket"
	"task-tracker-api/pkg/config"
	"task-tracker-api/pkg/logger"
	"task-tracker-api/pkg/metrics"
	"task-tracker-api/pkg/utils"
)

// Event names ของ tasks namespace
const (
	EventCreateTask   = "createTask"
	EventReadTask     = "readTask"
	EventReadAllTasks = "readAllTasks"
	EventUpdateTask   = "updateTask"
	EventDeleteTask   = "deleteTask"
	EventPing         = "ping"
	EventPong         = "pong"

	EventDataError          = "dataError"
	EventDisconnectionError = "disconnectionError"
)

const (
	localsToken     = "ws_token"
	localsRequestID = "request_id"
)

// Frame inbound message
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	RID   string          `json:"rid,omitempty"`
}

// ErrorPayload data ของ dataError / disconnectionError
type ErrorPayload struct {
	Event   string      `json:"event,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type TaskGateway struct {
	hub         *wsinfra.Hub
	authService services.AuthService
	taskService services.TaskService
	cfg         config.WebSocketConfig
}

func NewTaskGateway(hub *wsinfra.Hub, authService services.AuthService, taskService services.TaskService, cfg config.WebSocketConfig) *TaskGateway {
	return &TaskGateway{
		hub:         hub,
		authService: authService,
		taskService: taskService,
		cfg:         cfg,
	}
}

// Upgrade อ่าน cookie ก่อน upgrade เพราะหลัง upgrade เข้าถึง fiber.Ctx ไม่ได้แล้ว
func (g *TaskGateway) Upgrade(cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals(localsToken, c.Cookies(cookieName))
		return c.Next()
	}
}

// Handle is the per-connection loop.
func (g *TaskGateway) Handle(conn *websocket.Conn) {
	ctx := context.Background()
	if rid, ok := conn.Locals(localsRequestID).(string); ok {
		ctx = logger.ContextWithRequestID(ctx, rid)
	}
	token, _ := conn.Locals(localsToken).(string)

	principal, err := g.authService.VerifyToken(ctx, token)
	if err != nil {
		logger.WarnContext(ctx, "WebSocket connection rejected", "error", err)
		metrics.RecordWSEvent("connect", "unauthorized")
		_ = conn.WriteJSON(wsinfra.Message{
			Event: EventDisconnectionError,
			Data:  ErrorPayload{Message: apperrors.PublicMessage(err)},
		})
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	var limiter *rate.Limiter
	if g.cfg.EventsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(g.cfg.EventsPerSecond), g.cfg.Burst)
	}
	client := wsinfra.NewClient(conn, principal.User.ID, limiter)
	g.hub.Register(client)
	defer g.hub.Unregister(client)

	ctx = logger.ContextWithUserID(ctx, client.UserID)

	// socket ที่ไม่ตอบ pong ภายใน 2 รอบ heartbeat ถือว่าตาย
	if g.cfg.PingInterval > 0 {
		readTimeout := 2 * g.cfg.PingInterval
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		})
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WarnContext(ctx, "WebSocket read error", "error", err)
			}
			return
		}
		if g.cfg.PingInterval > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(2 * g.cfg.PingInterval))
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			g.sendError(client, "", "", apperrors.BadRequest("Invalid message format"), nil)
			continue
		}

		if !g.Dispatch(ctx, client, token, frame) {
			return
		}
	}
}

// Dispatch handles one inbound frame; false means the socket must be closed.
func (g *TaskGateway) Dispatch(ctx context.Context, client *wsinfra.Client, token string, frame Frame) bool {
	if !client.Allow() {
		metrics.RecordWSEvent(frame.Event, "rate_limited")
		g.sendError(client, frame.Event, frame.RID, apperrors.BadRequest("Too many requests"), nil)
		return true
	}

	if frame.Event == EventPing {
		metrics.RecordWSEvent(frame.Event, "ok")
		g.reply(client, EventPong, frame.RID, nil)
		return true
	}

	// token ถูกตรวจซ้ำทุก event (อาจหมดอายุ/ถูก revoke ระหว่าง session)
	principal, err := g.authService.VerifyToken(ctx, token)
	if err == nil && principal.User.ID != client.UserID {
		err = apperrors.Unauthorized("Invalid authentication token")
	}
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			metrics.RecordWSEvent(frame.Event, "error")
			g.sendError(client, frame.Event, frame.RID, err, nil)
			return true
		}
		metrics.RecordWSEvent(frame.Event, "unauthorized")
		_ = client.Send(wsinfra.Message{
			Event: EventDisconnectionError,
			Data:  ErrorPayload{Message: apperrors.PublicMessage(err)},
			RID:   frame.RID,
		})
		return false
	}

	var (
		result interface{}
		opErr  error
	)
	switch frame.Event {
	case EventCreateTask:
		result, opErr = g.createTask(ctx, client, frame.Data)
	case EventReadTask:
		result, opErr = g.readTask(ctx, client, frame.Data)
	case EventReadAllTasks:
		result, opErr = g.readAllTasks(ctx, client, frame.Data)
	case EventUpdateTask:
		result, opErr = g.updateTask(ctx, client, frame.Data)
	case EventDeleteTask:
		result, opErr = g.deleteTask(ctx, client, frame.Data)
	default:
		metrics.RecordWSEvent("unknown", "invalid")
		g.sendError(client, frame.Event, frame.RID, apperrors.BadRequest("Unknown event: "+frame.Event), nil)
		return true
	}

	if opErr != nil {
		var details interface{}
		if ve, ok := opErr.(*validationError); ok {
			details = ve.fields
			opErr = apperrors.BadRequest("Validation failed")
		}
		metrics.RecordWSEvent(frame.Event, outcomeOf(opErr))
		g.sendError(client, frame.Event, frame.RID, opErr, details)
		return true
	}

	metrics.RecordWSEvent(frame.Event, "ok")
	g.reply(client, frame.Event, frame.RID, result)
	return true
}

func (g *TaskGateway) createTask(ctx context.Context, client *wsinfra.Client, data json.RawMessage) (interface{}, error) {
	var req dto.CreateTaskRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	task, err := g.taskService.CreateTask(ctx, client.UserID, &req)
	if err != nil {
		return nil, err
	}
	return dto.TaskToTaskResponse(task), nil
}

func (g *TaskGateway) readTask(ctx context.Context, client *wsinfra.Client, data json.RawMessage) (interface{}, error) {
	var req dto.TaskIDRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	task, err := g.taskService.GetTask(ctx, req.TaskID, client.UserID)
	if err != nil {
		return nil, err
	}
	return dto.TaskToTaskResponse(task), nil
}

// readAllTasks จำ query ไว้ใช้ตอน refresh หลัง mutation
func (g *TaskGateway) readAllTasks(ctx context.Context, client *wsinfra.Client, data json.RawMessage) (interface{}, error) {
	var query dto.TaskQuery
	if err := decode(data, &query); err != nil {
		return nil, err
	}
	query.PageQuery, _ = query.PageQuery.Normalize()

	page, err := g.taskService.GetPagedUserTasks(ctx, client.UserID, query)
	if err != nil {
		return nil, err
	}
	client.SetQuery(query)
	return page, nil
}

func (g *TaskGateway) updateTask(ctx context.Context, client *wsinfra.Client, data json.RawMessage) (interface{}, error) {
	var req dto.UpdateTaskRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	task, err := g.taskService.UpdateTask(ctx, req.TaskID, client.UserID, &req)
	if err != nil {
		return nil, err
	}
	return dto.TaskToTaskResponse(task), nil
}

func (g *TaskGateway) deleteTask(ctx context.Context, client *wsinfra.Client, data json.RawMessage) (interface{}, error) {
	var req dto.TaskIDRequest
	if err := decode(data, &req); err != nil {
		return nil, err
	}
	if err := g.taskService.DeleteTask(ctx, req.TaskID, client.UserID); err != nil {
		return nil, err
	}
	return dto.DeleteTaskResponse{TaskID: req.TaskID, Deleted: true}, nil
}

// OnTaskEvent ส่ง readAllTasks ให้ทุก socket ของเจ้าของ task ด้วย query ล่าสุดของแต่ละ socket
func (g *TaskGateway) OnTaskEvent(event *ports.TaskEvent) {
	ctx := logger.ContextWithUserID(context.Background(), event.UserID)
	g.hub.SendEach(event.UserID, func(client *wsinfra.Client) (wsinfra.Message, error) {
		page, err := g.taskService.GetPagedUserTasks(ctx, event.UserID, client.Query())
		if err != nil {
			return wsinfra.Message{}, err
		}
		return wsinfra.Message{Event: EventReadAllTasks, Data: page}, nil
	})
}

// Heartbeat ให้ scheduler เรียกเป็นระยะ
func (g *TaskGateway) Heartbeat() {
	timeout := g.cfg.PingInterval
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if dropped := g.hub.PingAll(timeout); dropped > 0 {
		logger.Info("WebSocket heartbeat dropped sockets", "dropped", dropped, "remaining", g.hub.Count())
	}
}

func (g *TaskGateway) reply(client *wsinfra.Client, event, rid string, data interface{}) {
	if err := client.Send(wsinfra.Message{Event: event, Data: data, RID: rid}); err != nil {
		logger.Warn("WebSocket reply failed", "client_id", client.ID, "event", event, "error", err)
	}
}

func (g *TaskGateway) sendError(client *wsinfra.Client, event, rid string, err error, details interface{}) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		logger.Error("WebSocket event failed", "client_id", client.ID, "event", event, "error", err)
	}
	g.reply(client, EventDataError, rid, ErrorPayload{
		Event:   event,
		Message: apperrors.PublicMessage(err),
		Details: details,
	})
}

type validationError struct {
	fields []utils.FieldError
}

func (e *validationError) Error() string { return "validation failed" }

// decode ว่าง/null = object ว่าง แล้วให้ validator ตัดสิน
func decode(data json.RawMessage, target interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, target); err != nil {
			return apperrors.BadRequest("Invalid payload")
		}
	}
	if err := utils.ValidateStruct(target); err != nil {
		return &validationError{fields: utils.GetValidationErrors(err)}
	}
	return nil
}

func outcomeOf(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.KindBadRequest:
		return "invalid"
	case apperrors.KindNotFound:
		return "not_found"
	case apperrors.KindUnauthorized, apperrors.KindForbidden:
		return "unauthorized"
	default:
		return "error"
	}
}
