package model

// Setting is a persisted key/value pair backing the settings endpoints.
type Setting struct {
	Key   string `gorm:"primaryKey;column:key;type:VARCHAR;size:100;"`
	Value string `gorm:"column:value;not null"`
}
