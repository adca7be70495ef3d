package domain

import "errors"

// ドメイン固有のエラー型を定義
var (
	// ErrTransformFailed は、画像変換のリモート呼び出しが失敗した場合のエラーです
	ErrTransformFailed = errors.New("画像変換に失敗しました")

	// ErrNoVisualOutput は、画像変換の応答に画像データが含まれていない場合のエラーです
	ErrNoVisualOutput = errors.New("AIエンジンが画像を出力しませんでした")

	// ErrGenerationInFlight は、生成処理が既に実行中の場合のエラーです
	ErrGenerationInFlight = errors.New("生成処理が既に実行中です")

	// ErrNothingToApply は、カラーとスタイルのどちらも選択されていない場合のエラーです
	ErrNothingToApply = errors.New("カラーまたはスタイルを選択してください")

	// ErrMalformedHistory は、永続化された履歴が壊れている場合のエラーです
	ErrMalformedHistory = errors.New("履歴データが壊れています")

	// ErrInvalidImage は、画像データを読み取れない場合のエラーです
	ErrInvalidImage = errors.New("無効な画像データです")

	// ErrNothingToDownload は、ダウンロードできる変換結果がない場合のエラーです
	ErrNothingToDownload = errors.New("ダウンロードできる変換結果がありません")

	// ErrInvalidLead は、リード情報の必須項目が欠けている場合のエラーです
	ErrInvalidLead = errors.New("無効なリード情報です")

	// ErrUnknownEmployeeSize は、従業員規模が定義済みの区分に含まれない場合のエラーです
	ErrUnknownEmployeeSize = errors.New("未知の従業員規模です")

	// ErrHistoryEntryNotFound は、指定された履歴エントリが存在しない場合のエラーです
	ErrHistoryEntryNotFound = errors.New("履歴エントリが見つかりません")
)

// ErrUnknownPreset は、カタログに存在しないプリセットが指定された場合のエラーです
var ErrUnknownPreset = errors.New("カタログに存在しないプリセットです")
