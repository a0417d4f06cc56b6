package viz

// trailFloor is the intensity below which a trail pixel is dropped.
const trailFloor = 0.15

// Trail is a per-pixel intensity buffer that imitates painting a
// translucent black overlay over the previous frame instead of clearing it.
type Trail struct {
	w, h      int
	keep      float64
	intensity []float64
	colors    []string
}

// NewTrail sizes the buffer in sub-pixels. alpha is the overlay opacity in
// [0, 255]: 255 clears every frame, 0 never fades.
func NewTrail(w, h, alpha int) *Trail {
	return &Trail{
		w:         w,
		h:         h,
		keep:      1 - float64(alpha)/255,
		intensity: make([]float64, w*h),
		colors:    make([]string, w*h),
	}
}

func (t *Trail) Fade() {
	for i, v := range t.intensity {
		if v == 0 {
			continue
		}
		v *= t.keep
		if v < trailFloor {
			v = 0
			t.colors[i] = ""
		}
		t.intensity[i] = v
	}
}

func (t *Trail) Stamp(x, y int, hex string) {
	if x < 0 || y < 0 || x >= t.w || y >= t.h {
		return
	}
	i := y*t.w + x
	t.intensity[i] = 1
	t.colors[i] = hex
}

// StampDisc stamps every pixel within r of (cx, cy).
func (t *Trail) StampDisc(cx, cy int, r float64, hex string) {
	ir := int(r)
	for dy := -ir; dy <= ir; dy++ {
		for dx := -ir; dx <= ir; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				t.Stamp(cx+dx, cy+dy, hex)
			}
		}
	}
	t.Stamp(cx, cy, hex)
}

func (t *Trail) Intensity(x, y int) float64 {
	if x < 0 || y < 0 || x >= t.w || y >= t.h {
		return 0
	}
	return t.intensity[y*t.w+x]
}

func (t *Trail) Reset() {
	for i := range t.intensity {
		t.intensity[i] = 0
		t.colors[i] = ""
	}
}

// Draw lights every live pixel on the canvas.
func (t *Trail) Draw(c *Canvas) {
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			i := y*t.w + x
			if t.intensity[i] > 0 {
				c.SetColor(x, y, t.colors[i])
			}
		}
	}
}
