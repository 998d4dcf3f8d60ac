package model

type Setting struct {
	Key   string `json:"key" gorm:"primaryKey;size:64"`
	Value string `json:"value" gorm:"type:text"`
	Desc  string `json:"desc" gorm:"size:255"`
}

// AllModels 返回需要自动迁移的全部模型，顺序满足外键依赖
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Setting{},
		&Image{},
		&Comment{},
		&Vote{},
	}
}
