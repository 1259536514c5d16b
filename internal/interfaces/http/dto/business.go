// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"lifex-api/internal/domain/entity"
)

// BusinessSearchRequest 商家检索请求
type BusinessSearchRequest struct {
	Query     string  `form:"q"`
	Category  string  `form:"category" binding:"omitempty,oneof=coffee restaurant bar gym salon shopping service"`
	City      string  `form:"city"`
	MinRating float64 `form:"min_rating" binding:"omitempty,min=0,max=5"`
	MinLat    float64 `form:"min_lat"`
	MaxLat    float64 `form:"max_lat"`
	MinLng    float64 `form:"min_lng"`
	MaxLng    float64 `form:"max_lng"`
	Page      int     `form:"page" binding:"omitempty,min=1"`
	PageSize  int     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BusinessDTO 商家信息
type BusinessDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	PriceLevel  int      `json:"priceLevel"`
	OpenHours   string   `json:"openHours,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// ToBusinessDTO 将商家实体转换为 DTO
func ToBusinessDTO(b *entity.Business) *BusinessDTO {
	if b == nil {
		return nil
	}
	return &BusinessDTO{
		ID:          b.ID,
		Name:        b.Name,
		Category:    string(b.Category),
		Tags:        b.Tags,
		Description: b.Description,
		Address:     b.Address,
		City:        b.City,
		Latitude:    b.Latitude,
		Longitude:   b.Longitude,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		PriceLevel:  b.PriceLevel,
		OpenHours:   b.OpenHours,
		Phone:       b.Phone,
		ImageURL:    b.ImageURL,
	}
}

// ToBusinessDTOs 批量转换商家实体
func ToBusinessDTOs(businesses []*entity.Business) []*BusinessDTO {
	dtos := make([]*BusinessDTO, 0, len(businesses))
	for _, b := range businesses {
		dtos = append(dtos, ToBusinessDTO(b))
	}
	return dtos
}
