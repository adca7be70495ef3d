package domain

import (
	"encoding/json"
	"fmt"
)

// HistoryCapacity は、保持する履歴エントリの最大件数です
const HistoryCapacity = 10

// HistoryLog は、新しい順に並んだ生成結果の有界な履歴です
type HistoryLog struct {
	entries []TransformationResult
}

// NewHistoryLog は、指定されたエントリから容量で切り詰めたHistoryLogを作成します
func NewHistoryLog(entries []TransformationResult) HistoryLog {
	if len(entries) > HistoryCapacity {
		entries = entries[:HistoryCapacity]
	}
	copied := make([]TransformationResult, len(entries))
	for i, e := range entries {
		copied[i] = e.Normalize()
	}
	return HistoryLog{entries: copied}
}

// Record は、エントリを先頭に追加した新しいHistoryLogを返します。
// 容量を超えた古いエントリは末尾から破棄されます。
func (h HistoryLog) Record(entry TransformationResult) HistoryLog {
	next := make([]TransformationResult, 0, min(len(h.entries)+1, HistoryCapacity))
	next = append(next, entry.Normalize())
	for _, e := range h.entries {
		if len(next) == HistoryCapacity {
			break
		}
		next = append(next, e)
	}
	return HistoryLog{entries: next}
}

// Entries は、履歴エントリのコピーを返します
func (h HistoryLog) Entries() []TransformationResult {
	return append([]TransformationResult(nil), h.entries...)
}

// Len は、履歴エントリの件数を返します
func (h HistoryLog) Len() int {
	return len(h.entries)
}

// IsEmpty は、履歴が空かどうかを判定します
func (h HistoryLog) IsEmpty() bool {
	return len(h.entries) == 0
}

// Find は、IDが一致するエントリを返します
func (h HistoryLog) Find(id string) (TransformationResult, bool) {
	for _, e := range h.entries {
		if e.ID != "" && e.ID == id {
			return e, true
		}
	}
	return TransformationResult{}, false
}

// MarshalJSON は、容量で切り詰めた履歴をJSON配列として出力します
func (h HistoryLog) MarshalJSON() ([]byte, error) {
	entries := h.entries
	if entries == nil {
		entries = []TransformationResult{}
	}
	if len(entries) > HistoryCapacity {
		entries = entries[:HistoryCapacity]
	}
	return json.Marshal(entries)
}

// UnmarshalJSON は、JSON配列から履歴を復元します
func (h *HistoryLog) UnmarshalJSON(data []byte) error {
	var entries []TransformationResult
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	*h = NewHistoryLog(entries)
	return nil
}

// DecodeHistoryLog は、永続化された表現からHistoryLogを復元します。
// 空の値は空の履歴として扱います。
func DecodeHistoryLog(data []byte) (HistoryLog, error) {
	if len(data) == 0 {
		return HistoryLog{}, nil
	}
	var entries []TransformationResult
	if err := json.Unmarshal(data, &entries); err != nil {
		return HistoryLog{}, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	return NewHistoryLog(entries), nil
}
