package domain

import "math"

// スライダーの境界値
const (
	SliderMin = 0.0
	SliderMax = 100.0
	// SliderInitial は、初期表示時の境界位置です
	SliderInitial = 50.0
	// SliderScaleFloor は、内側画像の拡大率を計算する際の位置の下限です
	SliderScaleFloor = 0.1
)

// スライダーのデフォルトラベル
const (
	DefaultBeforeLabel = "BASE CANVAS"
	DefaultAfterLabel  = "AI TRANSFORMATION"
)

// ClampPosition は、位置を[0, 100]に収めます。NaNは0として扱います。
func ClampPosition(position float64) float64 {
	if math.IsNaN(position) {
		return SliderMin
	}
	return math.Max(SliderMin, math.Min(SliderMax, position))
}

// PositionFromPointer は、ポインタのX座標からコンテナ幅に対する割合（%）を計算します。
// 幅が0以下のコンテナは位置0を返します。
func PositionFromPointer(pointerX, containerLeft, containerWidth float64) float64 {
	if containerWidth <= 0 || math.IsNaN(containerWidth) || math.IsInf(containerWidth, 0) {
		return SliderMin
	}
	return ClampPosition((pointerX - containerLeft) / containerWidth * 100)
}

// SliderGeometry は、比較スライダーの描画に必要な値です
type SliderGeometry struct {
	// Position は、境界の位置（%）です
	Position float64 `json:"position"`
	// ClipWidthPercent は、変換前レイヤーの表示幅（コンテナに対する%）です
	ClipWidthPercent float64 `json:"clipWidthPercent"`
	// InnerWidthPercent は、変換前画像自体の幅（クリップ領域に対する%）です
	InnerWidthPercent float64 `json:"innerWidthPercent"`
	// HandleLeftPercent は、ハンドルの左端からの位置（%）です
	HandleLeftPercent float64 `json:"handleLeftPercent"`
}

// GeometryAt は、位置からスライダーの描画値を計算します
func GeometryAt(position float64) SliderGeometry {
	pos := ClampPosition(position)
	return SliderGeometry{
		Position:          pos,
		ClipWidthPercent:  pos,
		InnerWidthPercent: InnerScale(pos) * 100,
		HandleLeftPercent: pos,
	}
}

// InnerScale は、変換前画像がコンテナ全幅を覆うための拡大率を返します
func InnerScale(position float64) float64 {
	return 100 / math.Max(ClampPosition(position), SliderScaleFloor)
}

// ClipWidthPixels は、指定したコンテナ幅での変換前レイヤーの幅（px）を返します
func (g SliderGeometry) ClipWidthPixels(containerWidth float64) float64 {
	if containerWidth <= 0 {
		return 0
	}
	return containerWidth * g.ClipWidthPercent / 100
}

// SliderState は、ビューごとの比較スライダーの状態です
type SliderState struct {
	position float64
}

// NewSliderState は、初期位置のSliderStateを作成します
func NewSliderState() SliderState {
	return SliderState{position: SliderInitial}
}

// Position は、現在の境界位置を返します
func (s SliderState) Position() float64 {
	return s.position
}

// Move は、ポインタ移動を反映した新しいSliderStateを返します
func (s SliderState) Move(pointerX, containerLeft, containerWidth float64) SliderState {
	return SliderState{position: PositionFromPointer(pointerX, containerLeft, containerWidth)}
}

// Geometry は、現在位置の描画値を返します
func (s SliderState) Geometry() SliderGeometry {
	return GeometryAt(s.position)
}
