package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// ToolRef 活动里引用的工具：只有 ID，或已解析出名称
type ToolRef interface {
	RefID() primitive.ObjectID
	isToolRef()
}

// ToolID 未解析的引用
type ToolID primitive.ObjectID

func (t ToolID) RefID() primitive.ObjectID { return primitive.ObjectID(t) }
func (ToolID) isToolRef()                  {}

// ResolvedTool 已解析的引用
type ResolvedTool struct {
	ID   primitive.ObjectID
	Name string
}

func (t *ResolvedTool) RefID() primitive.ObjectID { return t.ID }
func (*ResolvedTool) isToolRef()                  {}

// ResolveToolRef 在 names 中查到则返回 ResolvedTool，否则退化为 ToolID
func ResolveToolRef(id primitive.ObjectID, names map[primitive.ObjectID]string) ToolRef {
	if name, ok := names[id]; ok {
		return &ResolvedTool{ID: id, Name: name}
	}
	return ToolID(id)
}
