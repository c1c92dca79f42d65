package models

// Lot представляет лот продавца в снимке каталога автовыдачи.
// Идентификатор лота стабилен на всём пути загрузка → правка → экспорт;
// после загрузки мутирует только поле DeliveryText.
type Lot struct {
	LotID        int64    `json:"lot_id"`
	Title        string   `json:"title"`
	Price        *float64 `json:"price"`
	Stock        *int64   `json:"stock"`
	Subcategory  *string  `json:"subcategory"`
	DeliveryText string   `json:"delivery_text"`
}
