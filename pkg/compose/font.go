package compose

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/figquilt/figquilt/pkg/errors"
)

var (
	fontMu    sync.Mutex
	fontCache = map[string]*truetype.Font{}
)

// fallback families tried when the requested family is not installed.
// Helvetica itself is rarely present as a TTF on Linux.
var fontFallbacks = []string{"Arial", "Helvetica", "LiberationSans", "Liberation Sans", "DejaVuSans", "DejaVu Sans"}

// loadFace returns a font face for label drawing at the given size and DPI.
func loadFace(family string, bold bool, sizePt float64, dpi int) (font.Face, error) {
	f, err := loadFont(family, bold)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: sizePt, DPI: float64(dpi)}), nil
}

func loadFont(family string, bold bool) (*truetype.Font, error) {
	key := fmt.Sprintf("%s/%v", family, bold)

	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := fontCache[key]; ok {
		return f, nil
	}

	path, err := findFontFile(family, bold)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "read font %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse font %s", path)
	}

	fontCache[key] = f
	return f, nil
}

// findFontFile locates a TTF for the family via the system font paths,
// trying the bold variant names first when bold is requested.
func findFontFile(family string, bold bool) (string, error) {
	families := append([]string{family}, fontFallbacks...)
	for _, fam := range families {
		for _, name := range variantNames(fam, bold) {
			if path, err := findfont.Find(name); err == nil {
				return path, nil
			}
		}
	}
	return "", errors.New(errors.ErrCodeRenderFailed,
		"no usable font found for family %q; install a TTF of it or a common sans-serif", family)
}

func variantNames(family string, bold bool) []string {
	compact := strings.ReplaceAll(family, " ", "")
	if bold {
		return []string{
			family + "-Bold.ttf",
			family + " Bold.ttf",
			compact + "-Bold.ttf",
			compact + "bd.ttf",
			family + ".ttf",
			compact + ".ttf",
		}
	}
	return []string{
		family + ".ttf",
		compact + ".ttf",
		family + "-Regular.ttf",
		compact + "-Regular.ttf",
	}
}
