package transaction

// Transaction is the API response model for a synced transaction.
type Transaction struct {
	ID           string `json:"id" doc:"Aggregator transaction ID"`
	AccountID    string `json:"accountID" doc:"Aggregator account ID"`
	Amount       string `json:"amount" doc:"Decimal amount, positive for money moving out of the account"`
	CurrencyCode string `json:"currencyCode,omitempty" doc:"ISO currency code"`
	Name         string `json:"name" doc:"Merchant or transaction description"`
	Date         string `json:"date" doc:"Posted date in YYYY-MM-DD form"`
	Category     string `json:"category,omitempty" doc:"Category path"`
	Pending      bool   `json:"pending" doc:"Whether the transaction is still pending"`
}
