package models

import (
	"log"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&SystemSettings{},
		&Family{}, &Child{}, &Dependent{},
		&FoodBasket{},
		&DeliveryEvent{}, &DeliveryInvite{}, &DeliveryWithdrawal{},
		&Equipment{}, &Loan{},
		&VisitRequest{}, &VisitExecution{},
		&Referral{}, &StreetService{},
		&MonthlyClosure{},
		&AuditLog{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
