package dto

type LoginRequest struct {
	Username string `json:"username"`
	APIKey   string `json:"api_key"`
}

type CreateGameRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

type UpdateGameRequest struct {
	Name *string `json:"name,omitempty"`
	Slug *string `json:"slug,omitempty"`
	Icon *string `json:"icon,omitempty"`
}

type CreateRealmRequest struct {
	RealmName string  `json:"realm_name"`
	StatusURL *string `json:"status_url,omitempty"`
}

type UpdateRealmRequest struct {
	RealmName *string `json:"realm_name,omitempty"`
	StatusURL *string `json:"status_url,omitempty"`
}

type CreateGoldWalletRequest struct {
	RealmID string `json:"realm_id"`
}

type DepositRequest struct {
	RealmID string  `json:"realm_id"`
	Amount  float64 `json:"amount"`
}

type ConvertRequest struct {
	RealmID  string  `json:"realm_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type WithdrawRequest struct {
	RealmID string  `json:"realm_id"`
	Amount  float64 `json:"amount"`
}

type StaticWalletRequest struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

type UpdateFeesRequest struct {
	UsdFee   float64 `json:"usd_fee"`
	TomanFee float64 `json:"toman_fee"`
}

type QuoteRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}
