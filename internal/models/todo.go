// Package models はAPIで扱うデータ構造を定義します。
package models

import (
	"time"
)

// 完了状態
const (
	TodoIncomplete = "N"
	TodoComplete   = "Y"
)

// Todo はTodoのデータベース構造体を表します。
type Todo struct {
	TodoID       int        `db:"todo_id" json:"todoId"`             // 主キー
	TodoTitle    string     `db:"todo_title" json:"todoTitle"`       // タイトル
	TodoContent  *string    `db:"todo_content" json:"todoContent"`   // 内容 (任意)
	IsComplete   string     `db:"is_complete" json:"isComplete"`     // "Y" または "N"
	CompleteTime *time.Time `db:"complete_time" json:"completeTime"` // N→Y で設定、Y→N でクリア
	AddTime      time.Time  `db:"add_time" json:"addTime"`           // 作成日時
	AddUserID    string     `db:"add_user_id" json:"addUserId"`      // 作成者
}

// TodoQuery は一覧取得の絞り込み条件です。空白のみの項目は無視されます。
type TodoQuery struct {
	TodoTitle  string `form:"todoTitle" json:"todoTitle"`
	IsComplete string `form:"isComplete" json:"isComplete"`
	AddUserID  string `form:"addUserId" json:"addUserId"`
}

// InsertTodoRequest は作成時のリクエストです。完了状態は受け付けません。
type InsertTodoRequest struct {
	TodoTitle   string  `json:"todoTitle" display:"待辦標題" validate:"required,notblank,max=100"`
	TodoContent *string `json:"todoContent" display:"待辦內容" validate:"omitempty,max=500"`
}

// UpdateTodoRequest は更新時のリクエストです。
type UpdateTodoRequest struct {
	TodoTitle   string  `json:"todoTitle" display:"待辦標題" validate:"required,notblank,max=100"`
	TodoContent *string `json:"todoContent" display:"待辦內容" validate:"omitempty,max=500"`
	IsComplete  string  `json:"isComplete" display:"是否完成" validate:"required,oneof=Y N"`
}

// DeleteTodoResponse は削除したTodoの ID を返します。
type DeleteTodoResponse struct {
	TodoID int `json:"todoId"`
}
