package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"agency-erp/internal/shared/utils"
)

// CreateInfluencerRequest: platforms nhận chuỗi comma-joined ("youtube, instagram")
// để tương thích form cũ; contentTypes / categories là mảng.
type CreateInfluencerRequest struct {
	Name            string   `json:"name"`
	YoutubeHandle   *string  `json:"youtubeHandle"`
	InstagramHandle *string  `json:"instagramHandle"`
	TiktokHandle    *string  `json:"tiktokHandle"`
	Platforms       string   `json:"platforms"`
	ContentTypes    []string `json:"contentTypes"`
	Categories      []string `json:"categories"`
	Followers       int64    `json:"followers"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	BankName        *string  `json:"bankName"`
	AccountNumber   *string  `json:"accountNumber"`
	AccountHolder   *string  `json:"accountHolder"`
	Memo            *string  `json:"memo"`
}

func (r CreateInfluencerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Followers, validation.Min(int64(0))),
		validation.Field(&r.AccountNumber, validation.Length(0, 50)),
	)
}

func (r CreateInfluencerRequest) ToInfluencer(now time.Time) *Influencer {
	return &Influencer{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(r.Name),
		YoutubeHandle:   r.YoutubeHandle,
		InstagramHandle: r.InstagramHandle,
		TiktokHandle:    r.TiktokHandle,
		Platforms:       NormalizePlatforms(r.Platforms),
		ContentTypes:    trimAll(r.ContentTypes),
		Categories:      trimAll(r.Categories),
		Followers:       r.Followers,
		Email:           r.Email,
		Phone:           r.Phone,
		BankName:        r.BankName,
		AccountNumber:   r.AccountNumber,
		AccountHolder:   r.AccountHolder,
		Memo:            r.Memo,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

type UpdateInfluencerRequest struct {
	Name            *string   `json:"name"`
	YoutubeHandle   *string   `json:"youtubeHandle"`
	InstagramHandle *string   `json:"instagramHandle"`
	TiktokHandle    *string   `json:"tiktokHandle"`
	Platforms       *string   `json:"platforms"`
	ContentTypes    *[]string `json:"contentTypes"`
	Categories      *[]string `json:"categories"`
	Followers       *int64    `json:"followers"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	BankName        *string   `json:"bankName"`
	AccountNumber   *string   `json:"accountNumber"`
	AccountHolder   *string   `json:"accountHolder"`
	Memo            *string   `json:"memo"`
}

func (r UpdateInfluencerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Followers, validation.Min(int64(0))),
	)
}

func (r UpdateInfluencerRequest) Apply(inf *Influencer) {
	if r.Name != nil {
		inf.Name = strings.TrimSpace(*r.Name)
	}
	if r.YoutubeHandle != nil {
		inf.YoutubeHandle = r.YoutubeHandle
	}
	if r.InstagramHandle != nil {
		inf.InstagramHandle = r.InstagramHandle
	}
	if r.TiktokHandle != nil {
		inf.TiktokHandle = r.TiktokHandle
	}
	if r.Platforms != nil {
		inf.Platforms = NormalizePlatforms(*r.Platforms)
	}
	if r.ContentTypes != nil {
		inf.ContentTypes = trimAll(*r.ContentTypes)
	}
	if r.Categories != nil {
		inf.Categories = trimAll(*r.Categories)
	}
	if r.Followers != nil {
		inf.Followers = *r.Followers
	}
	if r.Email != nil {
		inf.Email = r.Email
	}
	if r.Phone != nil {
		inf.Phone = r.Phone
	}
	if r.BankName != nil {
		inf.BankName = r.BankName
	}
	if r.AccountNumber != nil {
		inf.AccountNumber = r.AccountNumber
	}
	if r.AccountHolder != nil {
		inf.AccountHolder = r.AccountHolder
	}
	if r.Memo != nil {
		inf.Memo = r.Memo
	}
}

// NormalizePlatforms tách chuỗi comma-joined, lowercase, bỏ trùng (giữ thứ tự)
func NormalizePlatforms(joined string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range utils.SplitTags(joined) {
		p = strings.ToLower(p)
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func trimAll(items []string) []string {
	return utils.SplitTags(strings.Join(items, ","))
}
