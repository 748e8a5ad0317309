package dto

type OrderMessageDTO struct {
	ID        uint64 `json:"id"`
	OrderID   uint64 `json:"order_id"`
	SenderID  uint64 `json:"sender_id"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type OrderFileDTO struct {
	ID        uint64 `json:"id"`
	OrderID   uint64 `json:"order_id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
}
