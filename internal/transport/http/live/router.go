package livehttp

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"livedesk/internal/audit"
	"livedesk/internal/ingest"
	"livedesk/internal/telemetry"
)

// maxBodyBytes caps a single snapshot payload. The producer posts at most a
// few records per frame; anything bigger is a misbehaving client.
const maxBodyBytes = 1 << 20

// Router serves the dashboard read endpoints over the shared state.
type Router struct {
	Coordinator *ingest.Coordinator
	Equity      *telemetry.EquityCell
	Account     *telemetry.AccountCell
	History     *telemetry.HistoryStore
	Trail       *audit.Trail

	AccountTTL time.Duration
	HistoryTTL time.Duration
	RecentMax  int
}

// Register mounts the read endpoints under the given group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/equity", r.handleEquity)
	group.GET("/account", r.handleAccount)
	group.GET("/account/resync", r.handleAccountResync)
	group.GET("/trades", r.handleTrades)
	group.GET("/trades/resync", r.handleTradesResync)
	group.GET("/stats", r.handleStats)
	group.GET("/log", r.handleIngestLog)
	group.GET("/chart", r.handleChart)
}

func (r *Router) handleIngest(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	ack := r.Coordinator.Ingest(c.Request.Context(), body, c.ClientIP())
	if !ack.OK {
		c.JSON(http.StatusBadRequest, ack)
		return
	}
	c.JSON(http.StatusOK, ack)
}

func (r *Router) handleEquity(c *gin.Context) {
	reading := r.Equity.Read()
	data := gin.H{"is_active": reading.Active}
	if reading.Timestamp != "" {
		data["ts"] = reading.Timestamp
		data["trade_date"] = reading.TradeDate()
	}
	if reading.Profit != nil {
		data["profit"] = *reading.Profit
	}
	if reading.CurrentEquity != nil {
		data["current_equity"] = *reading.CurrentEquity
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

func (r *Router) handleAccount(c *gin.Context) {
	raw, ok := r.Account.Read()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ok": false, "message": "no data yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": json.RawMessage(raw)})
}

func (r *Router) handleAccountResync(c *gin.Context) {
	c.JSON(http.StatusOK, r.Account.NeedsResend(r.AccountTTL))
}

func (r *Router) handleTrades(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": r.History.List()})
}

func (r *Router) handleTradesResync(c *gin.Context) {
	c.JSON(http.StatusOK, r.History.NeedsResend(r.HistoryTTL))
}

func (r *Router) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": telemetry.ComputeStats(r.Account, r.History)})
}

func (r *Router) handleIngestLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit <= 0 || limit > r.RecentMax {
		limit = r.RecentMax
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": r.Trail.Recent(limit)})
}
