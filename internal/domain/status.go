package domain

import "time"

// GenerationStatus は、ワークベンチの生成状態を表す定数です
type GenerationStatus int

const (
	StatusIdle GenerationStatus = iota
	StatusRequesting
	StatusSucceeded
	StatusFailed
)

// ConfirmationDuration は、生成成功後の確認表示が消えるまでの時間です
const ConfirmationDuration = 3 * time.Second

// FailureNotice は、生成失敗時にユーザーへ表示する文言です
const FailureNotice = "AI Studio currently high capacity. Please retry in 30s."

var generationStatusNames = []string{"idle", "requesting", "succeeded", "failed"}

// String はGenerationStatusの名前を返します
func (s GenerationStatus) String() string {
	if int(s) >= 0 && int(s) < len(generationStatusNames) {
		return generationStatusNames[s]
	}
	return "idle"
}

// CanStart は、この状態から新しい生成を開始できるかを判定します
func (s GenerationStatus) CanStart() bool {
	return s != StatusRequesting
}

// CanTransitionTo は、状態遷移が許可されているかを判定します
func (s GenerationStatus) CanTransitionTo(next GenerationStatus) bool {
	switch s {
	case StatusIdle, StatusSucceeded:
		return next == StatusRequesting
	case StatusRequesting:
		return next == StatusSucceeded || next == StatusFailed
	case StatusFailed:
		return next == StatusIdle || next == StatusRequesting
	}
	return false
}
