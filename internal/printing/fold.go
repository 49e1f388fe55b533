package printing

// The thermal protocol's text mode (and the bitmap face used by the
// rasterizer) only cover ASCII, so Vietnamese diacritics are folded to
// their base Latin letters before encoding. Any other non-ASCII rune
// becomes '?'.

var foldTable = map[rune]rune{}

func init() {
	groups := map[rune]string{
		'a': "áàảãạăắằẳẵặâấầẩẫậ",
		'd': "đ",
		'e': "éèẻẽẹêếềểễệ",
		'i': "íìỉĩị",
		'o': "óòỏõọôốồổỗộơớờởỡợ",
		'u': "úùủũụưứừửữự",
		'y': "ýỳỷỹỵ",
		'A': "ÁÀẢÃẠĂẮẰẲẴẶÂẤẦẨẪẬ",
		'D': "Đ",
		'E': "ÉÈẺẼẸÊẾỀỂỄỆ",
		'I': "ÍÌỈĨỊ",
		'O': "ÓÒỎÕỌÔỐỒỔỖỘƠỚỜỞỠỢ",
		'U': "ÚÙỦŨỤƯỨỪỬỮỰ",
		'Y': "ÝỲỶỸỴ",
	}
	for base, accented := range groups {
		for _, r := range accented {
			foldTable[r] = base
		}
	}
}

// FoldASCII maps Vietnamese diacritics to base Latin letters and
// replaces any remaining non-ASCII rune with '?'.
func FoldASCII(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if base, ok := foldTable[r]; ok {
			r = base
		}
		if r > 0x7F {
			r = '?'
		}
		out = append(out, r)
	}
	return string(out)
}
