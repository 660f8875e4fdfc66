// Package ingredient 解析單行食材文字
package ingredient

// Token 一行食材解析後的結構
type Token struct {
	Raw           string   `json:"raw"`
	Amount        *float64 `json:"amount,omitempty"`
	AmountDisplay string   `json:"amountDisplay,omitempty"`
	Unit          string   `json:"unit,omitempty"`
	Item          string   `json:"item,omitempty"`
	Note          string   `json:"note,omitempty"`
}

// HasAmount 是否解析出數量
func (t Token) HasAmount() bool {
	return t.Amount != nil
}

// AmountValue 回傳數量，沒有數量時為 0
func (t Token) AmountValue() float64 {
	if t.Amount == nil {
		return 0
	}
	return *t.Amount
}

// WithAmount 回傳設定新數量與顯示字串的副本，Raw 不變
func (t Token) WithAmount(amount float64, display string) Token {
	t.Amount = &amount
	t.AmountDisplay = display
	return t
}
