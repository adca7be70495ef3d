package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PlaceholderBefore は、アップロード前に表示するサンプルポートレートです
const PlaceholderBefore = "https://images.unsplash.com/photo-1595476108010-b4d1f102b1b1?auto=format&fit=crop&q=80&w=1200"

// Image は、データURIまたは外部URLで参照される不透明な画像ペイロードです
type Image struct {
	Data     []byte
	MIMEType string
	// URL は、バイト列を持たない外部参照の画像を指します
	URL string
}

// NewImage は、バイト列とMIMEタイプから新しいImageを作成します
func NewImage(data []byte, mimeType string) Image {
	return Image{Data: data, MIMEType: mimeType}
}

// ImageFromURL は、外部URLを参照するImageを作成します
func ImageFromURL(url string) Image {
	return Image{URL: url}
}

// IsRemote は、画像がバイト列ではなく外部URLを参照しているかを判定します
func (i Image) IsRemote() bool {
	return len(i.Data) == 0 && i.URL != ""
}

// IsEmpty は、画像が何も参照していないかを判定します
func (i Image) IsEmpty() bool {
	return len(i.Data) == 0 && i.URL == ""
}

// Ref は、画像の参照文字列を返します（データURIまたは外部URL）
func (i Image) Ref() string {
	if i.IsRemote() || len(i.Data) == 0 {
		return i.URL
	}
	return "data:" + i.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ParseImageRef は、データURIまたは外部URLからImageを復元します
func ParseImageRef(ref string) (Image, error) {
	if ref == "" {
		return Image{}, nil
	}
	if !strings.HasPrefix(ref, "data:") {
		return ImageFromURL(ref), nil
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: データURIにカンマがありません", ErrInvalidImage)
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return Image{}, fmt.Errorf("%w: base64形式のデータURIのみ対応しています", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return NewImage(data, mimeType), nil
}
