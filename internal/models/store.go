package models

import (
	"time"

	"github.com/google/uuid"
)

// Store holds the retail store identity printed on receipts.
type Store struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	CNPJ       *string   `json:"cnpj" db:"cnpj"`
	Phone      *string   `json:"phone" db:"phone"`
	Email      *string   `json:"email" db:"email"`
	Address    *string   `json:"address" db:"address"`
	City       *string   `json:"city" db:"city"`
	State      *string   `json:"state" db:"state"`
	ZipCode    *string   `json:"zip_code" db:"zip_code"`
	LogoObject *string   `json:"logo_object" db:"logo_object"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Profile binds an authenticated user to a store. A profile without a
// store_id means setup has not happened yet; checkout is blocked for it.
type Profile struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	StoreID   *uuid.UUID `json:"store_id" db:"store_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
