package models

// Requests for the validation HTTP endpoints. Defined in domain for
// consistency and reuse.

type ValidateRequest struct {
	Instruments []string `json:"instruments" validate:"required,min=1,dive,required"`
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Groups      []string `json:"groups" default:"[\"pricing\",\"spreads\",\"risk\"]" validate:"dive,oneof=pricing spreads risk"`
}

type ValidateDateRequest struct {
	Date        string   `json:"date" query:"date" validate:"required,datetime=2006-01-02"`
	Instruments []string `json:"instruments" query:"instruments"`
}

type SpreadRequest struct {
	CUSIP string  `json:"cusip" query:"cusip" validate:"required"`
	Date  string  `json:"date" query:"date" validate:"required,datetime=2006-01-02"`
	Price float64 `json:"price" query:"price" validate:"required,gt=0"`
}

type PriceRequest struct {
	CUSIP  string  `json:"cusip" query:"cusip" validate:"required"`
	Date   string  `json:"date" query:"date" validate:"required,datetime=2006-01-02"`
	Spread float64 `json:"spread" query:"spread"`
	Kind   string  `json:"kind" query:"kind" default:"benchmark" validate:"oneof=g_spread benchmark"`
}
