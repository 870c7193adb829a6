package util

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PtrFloat32 用于将 float32 转换为 *float32
func PtrFloat32(f float32) *float32 {
	return &f
}

// NormalizeTags 去空白、去重，保留原有顺序
func NormalizeTags(raw []string) []string {
	tagSet := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, exists := tagSet[t]; exists {
			continue
		}
		tagSet[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// StrSliceToObjectIDs 跳过非法的 hex
func StrSliceToObjectIDs(values []string) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
