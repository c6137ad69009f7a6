package models

// Уровни доступа инструмента.
const (
	AccessLevelFree   = "free"
	AccessLevelPro    = "pro"
	AccessLevelCustom = "custom"
)

// Tool представляет запись каталога инструментов. Каталог — конфигурационные
// данные, пользователи записи не создают.
type Tool struct {
	Filename    string // Уникальное имя файла инструмента, ключ каталога
	DisplayName string // Отображаемое имя
	Description string // Описание для витрины
	AccessLevel string // Уровень доступа: free, pro или custom
	IconSVG     string // SVG-иконка для витрины
}
