package model

import (
	"time"

	"github.com/google/uuid"
)

type Influencer struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	YoutubeHandle   *string   `json:"youtubeHandle"`
	InstagramHandle *string   `json:"instagramHandle"`
	TiktokHandle    *string   `json:"tiktokHandle"`
	Platforms       []string  `json:"platforms"`
	ContentTypes    []string  `json:"contentTypes"`
	Categories      []string  `json:"categories"`
	Followers       int64     `json:"followers"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	BankName        *string   `json:"bankName"`
	AccountNumber   *string   `json:"accountNumber"`
	AccountHolder   *string   `json:"accountHolder"`
	Memo            *string   `json:"memo"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Filter struct {
	Search   string // name hoặc handle
	Category string
	Platform string
}
