package models

import (
	"time"
)

type User struct {
	ID           string `json:"_id" bson:"_id"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	Password     string `json:"-" bson:"password"`
	BusinessName string `json:"businessName" bson:"businessName"`
	Address      string `json:"address" bson:"address"`
	PhoneNumber  string `json:"phoneNumber" bson:"phoneNumber"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
