package color

// YUV matrix coefficients (Kr, Kb) per ITU-R recommendation, used to
// derive full RGB<->YUV 3x3 matrices. This generalizes the sRGB<->linear
// scalar conversion in conversion.go (ConvertFromSRGB/ConvertToSRGB)
// from a single per-channel curve to a 3-channel matrix transform.
// Range handling is a separate linear offset/span pair (RangeScale),
// computed directly rather than through a lookup table.

type YUVCoeffs struct {
	Kr, Kb float64
}

var (
	CoeffsBT601  = YUVCoeffs{Kr: 0.299, Kb: 0.114}
	CoeffsBT709  = YUVCoeffs{Kr: 0.2126, Kb: 0.0722}
	CoeffsBT2020 = YUVCoeffs{Kr: 0.2627, Kb: 0.0593}
)

// RGBToYUV converts a full-range linear RGB triple in [0,1] to a
// full-range YUV triple in [0,1] (Y in [0,1], U/V in [0,1] centered at
// 0.5), using the given coefficients.
func RGBToYUV(coef YUVCoeffs, r, g, b float64) (y, u, v float64) {
	y = coef.Kr*r + (1-coef.Kr-coef.Kb)*g + coef.Kb*b
	u = (b-y)/(2*(1-coef.Kb)) + 0.5
	v = (r-y)/(2*(1-coef.Kr)) + 0.5
	return
}

// YUVToRGB is the inverse of RGBToYUV.
func YUVToRGB(coef YUVCoeffs, y, u, v float64) (r, g, b float64) {
	r = y + 2*(1-coef.Kr)*(v-0.5)
	b = y + 2*(1-coef.Kb)*(u-0.5)
	g = (y - coef.Kr*r - coef.Kb*b) / (1 - coef.Kr - coef.Kb)
	return
}

// RangeScale maps a normalized full-range [0,1] sample to the [0,1]
// position it must occupy in a limited-range encoding, and back.
// Limited range reserves 16/235 (luma) and 16/240 (chroma, 8-bit
// equivalents) at the signal's extremes for sync/footroom.
type RangeScale struct {
	lo, span float64
}

func LumaRangeScale(limited bool) RangeScale {
	if !limited {
		return RangeScale{lo: 0, span: 1}
	}
	return RangeScale{lo: 16.0 / 255.0, span: 219.0 / 255.0}
}

func ChromaRangeScale(limited bool) RangeScale {
	if !limited {
		return RangeScale{lo: 0, span: 1}
	}
	return RangeScale{lo: 16.0 / 255.0, span: 224.0 / 255.0}
}

// FullRangeScale is the identity scale used for RGB/BGRA samples and
// for alpha, neither of which is ever limited-range.
func FullRangeScale() RangeScale {
	return RangeScale{lo: 0, span: 1}
}

// Encode maps a full-range-normalized sample (luma: [0,1]; chroma:
// [0,1] centered at 0.5) into the signal range described by rs.
func (rs RangeScale) Encode(full float64) float64 {
	return rs.lo + full*rs.span
}

// Decode is the inverse of Encode.
func (rs RangeScale) Decode(coded float64) float64 {
	if rs.span == 0 {
		return 0
	}
	return (coded - rs.lo) / rs.span
}
