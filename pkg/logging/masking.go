// Package logging はログ関連のユーティリティを提供する。
package logging

// MaskMobile は携帯電話番号をマスキングする。
// 先頭6桁 + マスク + 末尾2桁を保持する。
// 例: +8801712345678 → +88017*****78
// enabled=false の場合はマスキングせずにそのまま返す。
func MaskMobile(mobile string, enabled bool) string {
	if !enabled {
		return mobile
	}
	return MaskPartial(mobile, 6, 2, '*')
}

// MaskPartial は文字列の一部をマスキングする。
// keepPrefix: 先頭から保持する文字数
// keepSuffix: 末尾から保持する文字数
// maskChar: マスキングに使用する文字
func MaskPartial(s string, keepPrefix, keepSuffix int, maskChar rune) string {
	runes := []rune(s)
	length := len(runes)

	// 文字列が短すぎる場合はそのまま返す
	if length <= keepPrefix+keepSuffix {
		return s
	}

	result := make([]rune, length)

	for i := 0; i < keepPrefix; i++ {
		result[i] = runes[i]
	}

	for i := keepPrefix; i < length-keepSuffix; i++ {
		result[i] = maskChar
	}

	for i := length - keepSuffix; i < length; i++ {
		result[i] = runes[i]
	}

	return string(result)
}
