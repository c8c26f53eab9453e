package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prasetyadi/graphmail-pipeline/internal/api/response"
	apperrors "github.com/prasetyadi/graphmail-pipeline/internal/errors"
	"github.com/prasetyadi/graphmail-pipeline/internal/graph"
	"github.com/prasetyadi/graphmail-pipeline/internal/processor"
)

// processAck is the fixed acknowledgment the poller expects on success
const processAck = "Message processed successfully."

// ProcessHandler handles relayed message payloads from the poller
type ProcessHandler struct {
	svc    *processor.Service
	logger *slog.Logger
}

// NewProcessHandler creates a new ProcessHandler
func NewProcessHandler(svc *processor.Service, logger *slog.Logger) *ProcessHandler {
	return &ProcessHandler{svc: svc, logger: logger}
}

// Process handles POST /api/process. The body is one message's transport
// JSON. A malformed body answers 500 with an error string, per the wire
// contract with the poller; anything else the poller treats as failure and
// retries naturally on a later tick.
func (h *ProcessHandler) Process(c echo.Context) error {
	var msg graph.Message
	if err := json.NewDecoder(c.Request().Body).Decode(&msg); err != nil {
		h.logger.Error("malformed message payload", "error", err)
		return c.String(http.StatusInternalServerError, "Invalid JSON in request body.")
	}

	h.logger.Info("received message payload",
		"message_id", msg.ID,
		"subject", msg.Subject,
		"from", msg.From.EmailAddress.Address,
	)

	summary, err := h.svc.Process(c.Request().Context(), &msg)
	if err != nil {
		h.logger.Error("failed to process message", "message_id", msg.ID, "error", err)
		return response.Error(c, apperrors.Wrap(err, "failed to process message"))
	}

	h.logger.Info("message processed",
		"message_id", msg.ID,
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return c.String(http.StatusOK, processAck)
}
