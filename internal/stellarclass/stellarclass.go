// Package stellarclass implements the Morgan-Keenan StellarClass token
// (spec.md §3) and the classifier that assigns one to a finished star
// (spec.md §4.4).
package stellarclass

import (
	"fmt"
	"strconv"
	"strings"
)

// StarType is the broad stellar remnant category a class belongs to.
type StarType int

const (
	NormalStar StarType = iota
	WhiteDwarf
	NeutronStar
	BlackHole
	DeathPlaceholder
)

// SpectralClass is the hydrogen (or degenerate-equivalent) spectral letter.
type SpectralClass int

const (
	SpectralUnknown SpectralClass = iota
	SpectralO
	SpectralB
	SpectralA
	SpectralF
	SpectralG
	SpectralK
	SpectralM
	SpectralL
	SpectralT
	SpectralY
	SpectralWN
	SpectralWNh
	SpectralWC
	SpectralWO
	SpectralDA
	SpectralDB
	SpectralDO
	SpectralDC
	SpectralQ
	SpectralX
)

var spectralLetters = map[SpectralClass]string{
	SpectralO: "O", SpectralB: "B", SpectralA: "A", SpectralF: "F",
	SpectralG: "G", SpectralK: "K", SpectralM: "M", SpectralL: "L",
	SpectralT: "T", SpectralY: "Y",
	SpectralWN: "WN", SpectralWNh: "WNh", SpectralWC: "WC", SpectralWO: "WO",
	SpectralDA: "DA", SpectralDB: "DB", SpectralDO: "DO", SpectralDC: "DC",
}

// LuminosityClass is the Yerkes luminosity class.
type LuminosityClass int

const (
	LuminosityUnknown LuminosityClass = iota
	Luminosity0
	LuminosityIaPlus
	LuminosityIa
	LuminosityIab
	LuminosityIb
	LuminosityI
	LuminosityII
	LuminosityIII
	LuminosityIV
	LuminosityV
	LuminosityVI
)

var luminosityStrings = map[LuminosityClass]string{
	Luminosity0: "0", LuminosityIaPlus: "Ia+", LuminosityIa: "Ia",
	LuminosityIab: "Iab", LuminosityIb: "Ib", LuminosityI: "I",
	LuminosityII: "II", LuminosityIII: "III", LuminosityIV: "IV",
	LuminosityV: "V", LuminosityVI: "VI",
}

// SpecialMark is a bitmask of the special MK annotations spec.md §3 names:
// metallic-line (m), peculiar (p), emission (f), and hydrogen-enriched
// Wolf-Rayet (h).
type SpecialMark uint8

const (
	MarkMetallic SpecialMark = 1 << iota // m
	MarkPeculiar                         // p
	MarkEmission                         // f
	MarkHEnriched                        // h
)

// StellarClass is the packed MK classification token (spec.md §3). Star
// type, spectral class/subclass, an optional metallic-line companion
// spectral class/subclass, luminosity class, and a special-mark bitmask are
// each packed into disjoint bit ranges of a 64-bit word so the whole class
// can be stored, compared, and round-tripped as one integer.
type StellarClass struct {
	StarType         StarType
	HSpectralClass   SpectralClass
	Subclass         float64 // e.g. 5.5
	IsAmStar         bool
	MSpectralClass   SpectralClass // the secondary class of an Am star
	MSubclass        float64
	LuminosityClass  LuminosityClass
	SpecialMark      SpecialMark
}

// Bit layout, widest to narrowest (mirrors spec.md §3's packed token):
//
//	63..61 StarType (3 bits)
//	60..56 HSpectralClass (5 bits)
//	55..52 Subclass integer part (4 bits)
//	51..48 Subclass tenths (4 bits)
//	47     IsAmStar (1 bit)
//	46..43 MSpectralClass (4 bits)
//	42..39 MSubclass integer part (4 bits)
//	38..35 MSubclass tenths (4 bits)
//	34..31 LuminosityClass (4 bits)
//	7..0   SpecialMark (8 bits)
const (
	shiftStarType    = 61
	shiftHSpectral   = 56
	shiftSubInt      = 52
	shiftSubTenth    = 48
	shiftIsAm        = 47
	shiftMSpectral   = 43
	shiftMSubInt     = 39
	shiftMSubTenth   = 35
	shiftLuminosity  = 31
)

// Uint64 packs the class into its 64-bit token form.
func (c StellarClass) Uint64() uint64 {
	subInt, subTenth := splitSubclass(c.Subclass)
	mSubInt, mSubTenth := splitSubclass(c.MSubclass)

	var data uint64
	data |= uint64(c.StarType) << shiftStarType
	data |= uint64(c.HSpectralClass) << shiftHSpectral
	data |= uint64(subInt) << shiftSubInt
	data |= uint64(subTenth) << shiftSubTenth
	if c.IsAmStar {
		data |= 1 << shiftIsAm
	}
	data |= uint64(c.MSpectralClass) << shiftMSpectral
	data |= uint64(mSubInt) << shiftMSubInt
	data |= uint64(mSubTenth) << shiftMSubTenth
	data |= uint64(c.LuminosityClass) << shiftLuminosity
	data |= uint64(c.SpecialMark)
	return data
}

// FromUint64 unpacks a StellarClass from its 64-bit token form.
func FromUint64(data uint64) StellarClass {
	return StellarClass{
		StarType:        StarType((data >> shiftStarType) & 0x7),
		HSpectralClass:  SpectralClass((data >> shiftHSpectral) & 0x1F),
		Subclass:        float64((data>>shiftSubInt)&0xF) + float64((data>>shiftSubTenth)&0xF)/10.0,
		IsAmStar:        (data>>shiftIsAm)&0x1 == 1,
		MSpectralClass:  SpectralClass((data >> shiftMSpectral) & 0xF),
		MSubclass:       float64((data>>shiftMSubInt)&0xF) + float64((data>>shiftMSubTenth)&0xF)/10.0,
		LuminosityClass: LuminosityClass((data >> shiftLuminosity) & 0xF),
		SpecialMark:     SpecialMark(data & 0xFF),
	}
}

func splitSubclass(v float64) (whole, tenth uint64) {
	w := int64(v)
	t := int64((v-float64(w))*10 + 0.5)
	return uint64(w), uint64(t)
}

// String renders the canonical MK form, e.g. "G2V", "DA5.5", "WN5h", "M0Ia+".
func (c StellarClass) String() string {
	switch c.StarType {
	case BlackHole:
		return "X"
	case NeutronStar:
		return "Q"
	case DeathPlaceholder:
		return "Unknown"
	}

	if c.HSpectralClass == SpectralUnknown {
		return "Unknown"
	}

	var b strings.Builder
	writeSpectral(&b, c.HSpectralClass, c.Subclass)

	if c.IsAmStar {
		b.WriteString("m")
		writeSpectral(&b, c.MSpectralClass, c.MSubclass)
	}

	if c.StarType == NormalStar {
		if s, ok := luminosityStrings[c.LuminosityClass]; ok {
			b.WriteString(s)
		}
	}

	if c.SpecialMark&MarkHEnriched != 0 {
		b.WriteString("h")
	}
	if c.SpecialMark&MarkEmission != 0 {
		b.WriteString("f")
	}
	if c.SpecialMark&MarkMetallic != 0 {
		b.WriteString("m")
	}
	if c.SpecialMark&MarkPeculiar != 0 {
		b.WriteString("p")
	}

	return b.String()
}

func writeSpectral(b *strings.Builder, class SpectralClass, subclass float64) {
	letters, ok := spectralLetters[class]
	if !ok {
		return
	}
	b.WriteString(letters)

	if subclass == 0 && (class == SpectralWN || class == SpectralWC || class == SpectralWO || class == SpectralWNh) {
		// Wolf-Rayet subclasses are always written even at zero.
	}

	if subclass != float64(int(subclass)) {
		b.WriteString(strconv.FormatFloat(subclass, 'f', 1, 64))
	} else {
		fmt.Fprintf(b, "%d", int(subclass))
	}
}

// Parse reads a canonical MK string back into a StellarClass. It is a
// single-pass character-stream parser, as spec.md §6 requires; special-mark
// ordering within the tail is free, and metallic-line (Am) stars' trailing
// "m<secondary class>" is recognized as the two-token form.
func Parse(s string) (StellarClass, error) {
	if s == "" {
		return StellarClass{}, fmt.Errorf("stellarclass: empty string")
	}
	if s == "Unknown" {
		return StellarClass{StarType: DeathPlaceholder, HSpectralClass: SpectralUnknown}, nil
	}
	if s == "X" {
		return StellarClass{StarType: BlackHole}, nil
	}
	if s == "Q" {
		return StellarClass{StarType: NeutronStar}, nil
	}

	runes := []rune(s)
	i := 0

	starType := NormalStar
	if runes[0] == 'D' {
		starType = WhiteDwarf
	}

	hClass, i, err := parseSpectralLetters(runes, i, starType)
	if err != nil {
		return StellarClass{}, err
	}

	subclass, i := parseSubclass(runes, i)

	var isAm bool
	var mClass SpectralClass
	var mSubclass float64
	if i < len(runes) && runes[i] == 'm' && starType == NormalStar {
		// Tentatively treat "m" as the Am-star separator only if a spectral
		// letter follows; otherwise it's the metallic-line special mark.
		if i+1 < len(runes) && isSpectralLetterStart(runes[i+1]) {
			isAm = true
			i++
			mClass, i, err = parseSpectralLetters(runes, i, NormalStar)
			if err != nil {
				return StellarClass{}, err
			}
			mSubclass, i = parseSubclass(runes, i)
		}
	}

	lumClass, i := parseLuminosityClass(runes, i, starType)

	mark := SpecialMark(0)
	for ; i < len(runes); i++ {
		switch runes[i] {
		case 'h':
			mark |= MarkHEnriched
		case 'f':
			mark |= MarkEmission
		case 'm':
			mark |= MarkMetallic
		case 'p':
			mark |= MarkPeculiar
		}
	}

	return StellarClass{
		StarType:        starType,
		HSpectralClass:  hClass,
		Subclass:        subclass,
		IsAmStar:        isAm,
		MSpectralClass:  mClass,
		MSubclass:       mSubclass,
		LuminosityClass: lumClass,
		SpecialMark:     mark,
	}, nil
}

func isSpectralLetterStart(r rune) bool {
	switch r {
	case 'O', 'B', 'A', 'F', 'G', 'K', 'M', 'W', 'L', 'T', 'Y':
		return true
	}
	return false
}

func parseSpectralLetters(runes []rune, i int, starType StarType) (SpectralClass, int, error) {
	if i >= len(runes) {
		return SpectralUnknown, i, fmt.Errorf("stellarclass: unexpected end of string")
	}

	if starType == WhiteDwarf {
		if runes[i] != 'D' {
			return SpectralUnknown, i, fmt.Errorf("stellarclass: expected 'D' for white dwarf")
		}
		i++
		if i >= len(runes) {
			return SpectralDC, i, nil
		}
		switch runes[i] {
		case 'A':
			return SpectralDA, i + 1, nil
		case 'B':
			return SpectralDB, i + 1, nil
		case 'O':
			return SpectralDO, i + 1, nil
		case 'C':
			return SpectralDC, i + 1, nil
		default:
			return SpectralDC, i, nil
		}
	}

	switch runes[i] {
	case 'O':
		return SpectralO, i + 1, nil
	case 'B':
		return SpectralB, i + 1, nil
	case 'A':
		return SpectralA, i + 1, nil
	case 'F':
		return SpectralF, i + 1, nil
	case 'G':
		return SpectralG, i + 1, nil
	case 'K':
		return SpectralK, i + 1, nil
	case 'M':
		return SpectralM, i + 1, nil
	case 'L':
		return SpectralL, i + 1, nil
	case 'T':
		return SpectralT, i + 1, nil
	case 'Y':
		return SpectralY, i + 1, nil
	case 'W':
		i++
		if i >= len(runes) {
			return SpectralUnknown, i, fmt.Errorf("stellarclass: incomplete Wolf-Rayet class")
		}
		switch runes[i] {
		case 'N':
			i++
			if i < len(runes) && runes[i] == 'h' {
				return SpectralWNh, i + 1, nil
			}
			return SpectralWN, i, nil
		case 'C':
			return SpectralWC, i + 1, nil
		case 'O':
			return SpectralWO, i + 1, nil
		default:
			return SpectralUnknown, i, fmt.Errorf("stellarclass: unknown Wolf-Rayet subtype %q", runes[i])
		}
	default:
		return SpectralUnknown, i, fmt.Errorf("stellarclass: unknown spectral letter %q", runes[i])
	}
}

func parseSubclass(runes []rune, i int) (float64, int) {
	if i >= len(runes) || !isDigit(runes[i]) {
		return 0, i
	}
	whole := float64(runes[i] - '0')
	i++
	if i+1 < len(runes) && runes[i] == '.' && isDigit(runes[i+1]) {
		tenth := float64(runes[i+1] - '0')
		return whole + tenth/10.0, i + 2
	}
	return whole, i
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func parseLuminosityClass(runes []rune, i int, starType StarType) (LuminosityClass, int) {
	if starType != NormalStar || i >= len(runes) {
		return LuminosityUnknown, i
	}

	// Longest-match first.
	candidates := []struct {
		s string
		c LuminosityClass
	}{
		{"Ia+", LuminosityIaPlus}, {"Iab", LuminosityIab}, {"Ia", LuminosityIa},
		{"Ib", LuminosityIb}, {"III", LuminosityIII}, {"II", LuminosityII},
		{"IV", LuminosityIV}, {"I", LuminosityI}, {"VI", LuminosityVI},
		{"V", LuminosityV}, {"0", Luminosity0},
	}

	rest := string(runes[i:])
	for _, cand := range candidates {
		if strings.HasPrefix(rest, cand.s) {
			return cand.c, i + len([]rune(cand.s))
		}
	}
	return LuminosityUnknown, i
}
