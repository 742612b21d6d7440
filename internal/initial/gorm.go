package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/config"
	catalogEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/catalog/domain/entity"
	orderEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/order/domain/entity"
	supportEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
	userEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/entity"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func init() {
	conf := config.GetConfig()
	user := conf.MysqlConfig.User
	password := conf.MysqlConfig.Password
	host := conf.MysqlConfig.Host
	port := conf.MysqlConfig.Port
	dbName := conf.MysqlConfig.DatabaseName
	if dbName == "" {
		dbName = conf.AppName
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, password, host, port, dbName)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		zlog.Fatal(err.Error())
	}

	err = GormDB.AutoMigrate(
		&userEntity.Role{},
		&userEntity.User{},
		&supportEntity.ChatMessage{},
		&catalogEntity.Product{},
		&orderEntity.Order{},
		&orderEntity.OrderItem{},
	)
	if err != nil {
		zlog.Fatal(err.Error())
	}

	seedRoles(GormDB)
}

// seedRoles makes sure the baseline staff roles exist before the first
// login ever happens.
func seedRoles(db *gorm.DB) {
	defaults := []userEntity.Role{
		{Name: "admin", Label: "Administrator"},
		{Name: "support", Label: "Customer Support"},
		{Name: "cashier", Label: "Cashier"},
	}
	for i := range defaults {
		role := defaults[i]
		err := db.Where(userEntity.Role{Name: role.Name}).
			FirstOrCreate(&role).Error
		if err != nil {
			zlog.Error(err.Error())
		}
	}
}
