package repository

import "gorm.io/gorm"

const maxPageSize = 100

// paginate 分页 scope，pageSize 非正数时不分页，超过上限按上限截断
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
