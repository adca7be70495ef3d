package domain

import "time"

// TransformationResult は、完了した1回の生成結果を表すドメインオブジェクトです
type TransformationResult struct {
	ID          string    `json:"id,omitempty"`
	BeforeImage string    `json:"beforeImage"`
	AfterImage  string    `json:"afterImage"`
	Technique   string    `json:"technique"`
	ColorLabel  string    `json:"colorLabel"`
	StyleLabel  string    `json:"styleLabel"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// NewTransformationResult は、選択状態から新しいTransformationResultを作成します
func NewTransformationResult(id string, before, after Image, sel Selection, createdAt time.Time) TransformationResult {
	return TransformationResult{
		ID:          id,
		BeforeImage: before.Ref(),
		AfterImage:  after.Ref(),
		Technique:   sel.Technique(),
		ColorLabel:  sel.ColorLabel(),
		StyleLabel:  sel.StyleLabel(),
		CreatedAt:   createdAt,
	}
}

// Normalize は、ラベルが空の場合にセンチネル値を補います
func (r TransformationResult) Normalize() TransformationResult {
	if r.ColorLabel == "" {
		r.ColorLabel = Unchanged
	}
	if r.StyleLabel == "" {
		r.StyleLabel = Unchanged
	}
	return r
}
