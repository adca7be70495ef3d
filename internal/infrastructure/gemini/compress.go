package gemini

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// 送信前に読み込む入力形式
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// CompressImage は、長辺がmaxSize以下になるよう縮小し、指定品質のJPEGに再エンコードします
func CompressImage(data []byte, maxSize, quality int) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗: %w", err)
	}

	bounds := src.Bounds()
	width, height := scaledSize(bounds.Dx(), bounds.Dy(), maxSize)

	var out image.Image = src
	if width != bounds.Dx() || height != bounds.Dy() || format != "jpeg" {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
		out = dst
	}

	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("JPEGへのエンコードに失敗: %w", err)
	}
	return buf.Bytes(), nil
}

// scaledSize は、縦横比を保ったまま長辺をmaxSizeに収めたサイズを返します
func scaledSize(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	if width >= height {
		h := height * maxSize / width
		return maxSize, max(h, 1)
	}
	w := width * maxSize / height
	return max(w, 1), maxSize
}
