package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mohamedkhairy/tvstore/internal/cache"
	"github.com/mohamedkhairy/tvstore/internal/models"
	"github.com/mohamedkhairy/tvstore/internal/storage"
	"github.com/mohamedkhairy/tvstore/pkg/logger"
)

const statusCacheKey = "tvstore:status"

// IngestHandler receives TradingView alert webhooks and serves the
// operational status surface.
type IngestHandler struct {
	store     storage.BarStore
	cache     cache.Client // nil disables the status cache
	statusTTL time.Duration
}

// NewIngestHandler creates an ingest handler. cacheClient may be nil.
func NewIngestHandler(store storage.BarStore, cacheClient cache.Client, statusTTL time.Duration) *IngestHandler {
	return &IngestHandler{
		store:     store,
		cache:     cacheClient,
		statusTTL: statusTTL,
	}
}

// barPayload is the standard OHLCV alert body.
//
// TradingView alert message template:
//
//	{"ticker":"{{ticker}}","time":"{{time}}","open":{{open}},
//	 "high":{{high}},"low":{{low}},"close":{{close}},"volume":{{volume}}}
type barPayload struct {
	Ticker string   `json:"ticker"`
	Time   string   `json:"time"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume int64    `json:"volume"`
}

// ReceiveBar handles POST /webhook (the standard alert template).
func (h *IngestHandler) ReceiveBar(w http.ResponseWriter, r *http.Request) {
	var payload barPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		webhookBarsTotal.WithLabelValues("webhook", "rejected").Inc()
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Ticker == "" || payload.Time == "" ||
		payload.Open == nil || payload.High == nil || payload.Low == nil || payload.Close == nil {
		webhookBarsTotal.WithLabelValues("webhook", "rejected").Inc()
		respondWithError(w, http.StatusBadRequest, "Missing required OHLCV fields")
		return
	}

	bar := models.Bar{
		Ticker:    payload.Ticker,
		Timestamp: payload.Time,
		Open:      *payload.Open,
		High:      *payload.High,
		Low:       *payload.Low,
		Close:     *payload.Close,
		Volume:    payload.Volume,
	}

	h.insertAndRespond(w, r, "webhook", bar)
}

// ReceiveRaw handles POST /webhook/raw: a flexible endpoint for
// non-standard payloads whose field names differ from the template.
func (h *IngestHandler) ReceiveRaw(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		webhookBarsTotal.WithLabelValues("webhook_raw", "rejected").Inc()
		respondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	bar, err := NormalizeBar(body)
	if err != nil {
		webhookBarsTotal.WithLabelValues("webhook_raw", "rejected").Inc()
		if errors.Is(err, ErrMissingFields) {
			respondWithError(w, http.StatusBadRequest, "Missing required OHLCV fields")
		} else {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
		}
		return
	}

	h.insertAndRespond(w, r, "webhook_raw", bar)
}

func (h *IngestHandler) insertAndRespond(w http.ResponseWriter, r *http.Request, endpoint string, bar models.Bar) {
	if err := h.store.InsertBar(r.Context(), bar); err != nil {
		var storageErr *storage.StorageError
		if errors.As(err, &storageErr) {
			webhookBarsTotal.WithLabelValues(endpoint, "rejected").Inc()
			logger.Error("Failed to persist bar",
				logger.ErrorField(err),
				logger.String("ticker", bar.Ticker),
				logger.String("timestamp", bar.Timestamp),
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to store bar")
			return
		}
		// Validation failure (empty ticker, negative volume, ...).
		webhookBarsTotal.WithLabelValues(endpoint, "rejected").Inc()
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	webhookBarsTotal.WithLabelValues(endpoint, "accepted").Inc()

	// A new bar changes the catalog summary; drop the cached copy so the
	// next /status read sees this write.
	if h.cache != nil {
		if err := h.cache.Delete(r.Context(), statusCacheKey); err != nil {
			logger.Warn("Failed to invalidate status cache",
				logger.ErrorField(err),
			)
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"ticker": bar.Ticker,
		"time":   bar.Timestamp,
	})
}

// Status handles GET /status: every stored ticker with its date range.
func (h *IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	type statusResponse struct {
		Tickers map[string]*models.TickerSummary `json:"tickers"`
	}

	if h.cache != nil {
		var cached statusResponse
		err := h.cache.GetJSON(r.Context(), statusCacheKey, &cached)
		if err == nil {
			respondWithJSON(w, http.StatusOK, cached)
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("Status cache read failed",
				logger.ErrorField(err),
			)
		}
	}

	tickers, err := h.store.ListTickers(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list tickers")
		return
	}

	response := statusResponse{Tickers: make(map[string]*models.TickerSummary, len(tickers))}
	for _, ticker := range tickers {
		summary, err := h.store.DateRange(r.Context(), ticker)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to summarize ticker")
			return
		}
		if summary != nil {
			response.Tickers[ticker] = summary
		}
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), statusCacheKey, response, h.statusTTL); err != nil {
			logger.Warn("Status cache write failed",
				logger.ErrorField(err),
			)
		}
	}

	respondWithJSON(w, http.StatusOK, response)
}

// Health handles GET /health.
func (h *IngestHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Helper functions

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"message": message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
