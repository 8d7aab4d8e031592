package main

import (
	"log"
	"time"

	"studiorent/internal/database"
	"studiorent/internal/domain"
	"studiorent/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	db, err := database.Connect("studiorent.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Room{},
		&domain.Extra{},
		&domain.Booking{},
		&domain.Refund{},
		&domain.DeferredAction{},
		&domain.UtmCode{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	if err := repository.EnsureOverlapConstraint(db); err != nil {
		log.Fatal("Overlap constraint failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM utm_codes")
	db.Exec("DELETE FROM deferred_actions")
	db.Exec("DELETE FROM refunds")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM extras")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@studiorent.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Администратор",
	}
	db.Create(&admin)

	managerHash, _ := bcrypt.GenerateFromPassword([]byte("manager123"), bcrypt.DefaultCost)
	manager := domain.User{
		Email:        "manager@studiorent.local",
		PasswordHash: string(managerHash),
		Role:         domain.RoleManager,
		Name:         "Менеджер",
		Phone:        "+7 700 000 00 01",
	}
	db.Create(&manager)

	log.Println("Creating rooms...")

	published := time.Now()
	rooms := []domain.Room{
		{
			Name:              "Белый зал",
			PhotoPricePerHour: 1500000, // 15000.00 in minor units
			VideoPricePerHour: 2000000,
			EventPricePerHour: 2500000,
			DiscountPercent:   0,
			IsPrepayment:      true,
			Extras: []domain.Extra{
				{Name: "Циклорама", Price: 300000, PublishedAt: &published},
				{Name: "Дым-машина", Price: 200000, PublishedAt: &published},
			},
		},
		{
			Name:              "Лофт",
			PhotoPricePerHour: 1000000,
			VideoPricePerHour: 1400000,
			EventPricePerHour: 1800000,
			DiscountPercent:   10,
			IsPrepayment:      false,
			Extras: []domain.Extra{
				{Name: "Проектор", Price: 250000, PublishedAt: &published},
			},
		},
	}
	for i := range rooms {
		db.Create(&rooms[i])
	}

	log.Printf("Seed completed: users=2 rooms=%d", len(rooms))
}
