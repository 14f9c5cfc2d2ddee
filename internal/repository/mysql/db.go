package mysql

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		// 让唯一键冲突翻译成 gorm.ErrDuplicatedKey，名额引擎靠它识别重复加入
		TranslateError: true,
	})
	if err != nil {
		return err
	}
	DB = db
	return nil
}
