package service

import (
	"BuilderCentral/internal/api/dto"
	"BuilderCentral/internal/model"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// copyOption ObjectID 统一输出为 hex 字符串
var copyOption = copier.Option{
	Converters: []copier.TypeConverter{{
		SrcType: primitive.ObjectID{},
		DstType: copier.String,
		Fn: func(src interface{}) (interface{}, error) {
			return src.(primitive.ObjectID).Hex(), nil
		},
	}},
}

func toUserSummary(user *model.User) *dto.UserSummaryDTO {
	if user == nil {
		return nil
	}
	summary := &dto.UserSummaryDTO{}
	_ = copier.CopyWithOption(summary, user, copyOption)
	return summary
}

// toToolDTO author 为 nil 时不填充作者信息
func toToolDTO(tool *model.Tool, author *model.User) *dto.ToolDTO {
	item := &dto.ToolDTO{}
	_ = copier.CopyWithOption(item, tool, copyOption)

	if item.Tags == nil {
		item.Tags = []string{}
	}
	item.Author = toUserSummary(author)
	item.Likes = tool.LikeCount()

	item.Loves = make([]string, 0, len(tool.Loves))
	for _, id := range tool.Loves {
		item.Loves = append(item.Loves, id.Hex())
	}
	item.Ratings = make([]dto.RatingDTO, 0, len(tool.Ratings))
	for _, r := range tool.Ratings {
		item.Ratings = append(item.Ratings, dto.RatingDTO{UserID: r.UserID.Hex(), Rating: r.Rating})
	}
	item.Comments = make([]dto.CommentDTO, 0, len(tool.Comments))
	for _, c := range tool.Comments {
		item.Comments = append(item.Comments, dto.CommentDTO{UserID: c.UserID.Hex(), Content: c.Content, CreatedAt: c.CreatedAt})
	}
	return item
}

// toToolDTOs authors 按 ID 索引
func toToolDTOs(tools []*model.Tool, authors map[primitive.ObjectID]*model.User) []*dto.ToolDTO {
	items := make([]*dto.ToolDTO, 0, len(tools))
	for _, t := range tools {
		items = append(items, toToolDTO(t, authors[t.Author]))
	}
	return items
}
