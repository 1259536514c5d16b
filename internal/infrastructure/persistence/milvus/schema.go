// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionBusinessProfiles 商家画像集合
	CollectionBusinessProfiles = "business_profiles"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// BusinessProfilesSchema 商家画像 Collection Schema
func BusinessProfilesSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionBusinessProfiles,
		Description:    "Business profiles for semantic recommendation",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "category",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "32",
				},
			},
			{
				Name:     "city",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "128",
				},
			},
			{
				Name:     "rating",
				DataType: entity.FieldTypeFloat,
			},
			{
				Name:     "name",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "256",
				},
			},
			{
				Name:     "profile_text",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// BusinessProfile 商家画像数据结构
type BusinessProfile struct {
	ID          string    `json:"id"`
	Vector      []float32 `json:"vector"`
	Category    string    `json:"category"`
	City        string    `json:"city"`
	Rating      float32   `json:"rating"`
	Name        string    `json:"name"`
	ProfileText string    `json:"profile_text"`
}
