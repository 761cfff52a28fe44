package dto

// RegisterSaleRequest is the body of POST /vendas/registrar. The identity fields
// are accepted for compatibility; the seller always comes from the access token.
type RegisterSaleRequest struct {
	UserName string         `json:"usuarioNome"`
	UserID   string         `json:"usuarioId"`
	Role     string         `json:"role"`
	Items    []CartLineJSON `json:"itens"`
}

type CartLineJSON struct {
	ProductID string `json:"produtoId"`
	Quantity  int    `json:"quantidade"`
}
