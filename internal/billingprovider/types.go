package billingprovider

// CreateCustomerRequest — запрос на создание клиента.
type CreateCustomerRequest struct {
	Email string `json:"email"`
}

// CreateCustomerResponse — ответ платёжной системы на создание клиента.
type CreateCustomerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// CreateSessionRequest — запрос на создание checkout-сессии подписки.
type CreateSessionRequest struct {
	Mode              string `json:"mode"`                // всегда "subscription"
	PriceID           string `json:"price_id"`            // тариф подписки
	Quantity          int    `json:"quantity"`
	SuccessURL        string `json:"success_url"`
	CancelURL         string `json:"cancel_url"`
	ClientReferenceID string `json:"client_reference_id"` // UID пользователя
	CustomerEmail     string `json:"customer_email"`
}

// CreateSessionResponse — ответ с идентификатором созданной сессии.
type CreateSessionResponse struct {
	ID string `json:"id"`
}
