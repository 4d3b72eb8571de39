package models

// Requests for the pipeline HTTP endpoints. Defined in domain for consistency and reuse.

type CustomEventRequest struct {
	// Empty instrument falls back to the monitor's default (BTC/USD).
	Instrument string   `json:"instrument"`
	Price      *float64 `json:"price"`
	ChangePct  *float64 `json:"change_pct"`
}

type PipelineRequest struct {
	Instruments   []string            `json:"instruments" validate:"omitempty,dive,required"`
	CustomEvent   *CustomEventRequest `json:"custom_event"`
	UserPortfolio []Position          `json:"user_portfolio" validate:"omitempty,dive"`
	SkipContent   bool                `json:"skip_content"`
}

type ScanRequest struct {
	Instruments []string `json:"instruments" validate:"omitempty,dive,required"`
}

type QuoteRequest struct {
	Instrument string `query:"instrument" json:"instrument" validate:"required"`
}

type TechnicalsRequest struct {
	Instrument string `query:"instrument" json:"instrument" validate:"required"`
	TF         string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 15m 1h 4h 1d"`
	Count      int    `query:"count" json:"count" default:"120" validate:"gte=10,lte=500"`
}

type NewsRequest struct {
	Query string `query:"query" json:"query" validate:"required"`
	Limit int    `query:"limit" json:"limit" default:"5" validate:"gte=1,lte=20"`
}
