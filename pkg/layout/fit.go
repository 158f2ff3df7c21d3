package layout

// alignFactors maps each alignment anchor to its horizontal and vertical
// offset factors. Offsets are the factors multiplied by the free space on
// each axis.
var alignFactors = map[Alignment][2]float64{
	AlignCenter:      {0.5, 0.5},
	AlignTop:         {0.5, 0.0},
	AlignBottom:      {0.5, 1.0},
	AlignLeft:        {0.0, 0.5},
	AlignRight:       {1.0, 0.5},
	AlignTopLeft:     {0.0, 0.0},
	AlignTopRight:    {1.0, 0.0},
	AlignBottomLeft:  {0.0, 1.0},
	AlignBottomRight: {1.0, 1.0},
}

// Fit computes the drawn content rectangle for a source inside a cell.
//
// srcAspect is the source height divided by the source width. Under
// FitContain the content is the largest aspect-preserving rectangle that
// fits inside the cell; under FitCover it is the smallest one that covers
// the cell entirely, with the overflow expected to be clipped by the
// renderer. The returned offsets place the content inside the cell
// according to align.
//
// Inputs are assumed validated: positive cell dimensions, positive aspect,
// a recognized alignment. No errors originate here.
func Fit(srcAspect, cellW, cellH float64, mode FitMode, align Alignment) (contentW, contentH, offsetX, offsetY float64) {
	cellAspect := cellH / cellW

	if mode == FitCover {
		if srcAspect > cellAspect {
			// Source is relatively taller: pin width, height overflows.
			contentW = cellW
			contentH = cellW * srcAspect
		} else {
			// Source is relatively wider: pin height, width overflows.
			contentH = cellH
			contentW = cellH / srcAspect
		}
	} else {
		if srcAspect > cellAspect {
			// Source is relatively taller: pin height.
			contentH = cellH
			contentW = cellH / srcAspect
		} else {
			// Source is relatively wider: pin width.
			contentW = cellW
			contentH = cellW * srcAspect
		}
	}

	f, ok := alignFactors[align]
	if !ok {
		f = alignFactors[AlignCenter]
	}
	offsetX = (cellW - contentW) * f[0]
	offsetY = (cellH - contentH) * f[1]
	return contentW, contentH, offsetX, offsetY
}
