package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	domainAutomation "github.com/qualens/qualens/domains/automation"
	domainProfiling "github.com/qualens/qualens/domains/profiling"
	pkgError "github.com/qualens/qualens/pkg/error"
)

type client struct{}

type BroadcastMessage struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	JobID   string `json:"job_id,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// Hub fans live job updates out to connected dashboard clients. Clients
// send WATCH_JOB to follow a profiling job; the hub polls its status until
// it finishes and broadcasts every change. Automation status is polled for
// everyone.
type Hub struct {
	profiling  domainProfiling.IProfilingUsecase
	automation domainAutomation.IAutomationUsecase
	interval   time.Duration

	clients    map[*websocket.Conn]client
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan BroadcastMessage

	mu      sync.Mutex
	watched map[string]domainProfiling.Job
}

func NewHub(profiling domainProfiling.IProfilingUsecase, automation domainAutomation.IAutomationUsecase, pollInterval time.Duration) *Hub {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &Hub{
		profiling:  profiling,
		automation: automation,
		interval:   pollInterval,
		clients:    make(map[*websocket.Conn]client),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan BroadcastMessage, 16),
		watched:    make(map[string]domainProfiling.Job),
	}
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(message BroadcastMessage) {
	h.broadcast <- message
}

// Run owns the client set; it exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				h.closeConnection(conn)
			}
			return

		case conn := <-h.register:
			h.clients[conn] = client{}
			logrus.Debug("[WS] Connection registered")

		case conn := <-h.unregister:
			delete(h.clients, conn)
			logrus.Debug("[WS] Connection unregistered")

		case message := <-h.broadcast:
			h.broadcastToLocal(message)

		case <-ticker.C:
			h.pollOnce(ctx)
		}
	}
}

func (h *Hub) broadcastToLocal(message BroadcastMessage) {
	payload, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("[WS] Marshal error: %v", err)
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logrus.Errorf("[WS] Write error: %v", err)
			h.closeConnection(conn)
		}
	}
}

func (h *Hub) closeConnection(conn *websocket.Conn) {
	_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
	_ = conn.Close()
	delete(h.clients, conn)
}

// pollOnce refreshes every watched job plus the scheduler status and
// broadcasts what changed. Poll failures are logged, never fatal.
func (h *Hub) pollOnce(ctx context.Context) {
	if len(h.clients) == 0 {
		return
	}

	h.mu.Lock()
	ids := make([]string, 0, len(h.watched))
	for id := range h.watched {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		job, err := h.profiling.JobStatus(ctx, id)
		if err != nil {
			if !pkgError.IsCancelled(err) {
				logrus.Debugf("[WS] Job poll failed for %s: %v", id, err)
			}
			continue
		}

		h.mu.Lock()
		prev := h.watched[id]
		changed := job.Status != prev.Status || job.Progress != prev.Progress
		if job.Finished() {
			delete(h.watched, id)
		} else {
			h.watched[id] = job
		}
		h.mu.Unlock()

		if changed {
			h.broadcastToLocal(BroadcastMessage{
				Code:   "JOB_STATUS",
				JobID:  id,
				Result: job,
			})
		}
	}

	if h.automation != nil {
		status, err := h.automation.GlobalStatus(ctx)
		if err == nil {
			h.broadcastToLocal(BroadcastMessage{Code: "AUTOMATION_STATUS", Result: status})
		}
	}
}

func (h *Hub) watchJob(jobID string) {
	if jobID == "" {
		return
	}
	h.mu.Lock()
	if _, ok := h.watched[jobID]; !ok {
		h.watched[jobID] = domainProfiling.Job{}
	}
	h.mu.Unlock()
}

// RegisterRoutes mounts the upgrade endpoint at /ws/jobs.
func (h *Hub) RegisterRoutes(app fiber.Router) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws/jobs", websocket.New(func(conn *websocket.Conn) {
		defer func() {
			h.unregister <- conn
			_ = conn.Close()
		}()

		h.register <- conn

		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Debugf("[WS] Read error: %v", err)
				}
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}

			var incoming BroadcastMessage
			if err := json.Unmarshal(message, &incoming); err != nil {
				logrus.Debugf("[WS] Unmarshal error: %v", err)
				continue
			}

			if incoming.Code == "WATCH_JOB" {
				h.watchJob(incoming.JobID)
				h.Broadcast(BroadcastMessage{
					Code:    "WATCHING",
					JobID:   incoming.JobID,
					Message: "Job is being watched",
				})
			}
		}
	}))
}
