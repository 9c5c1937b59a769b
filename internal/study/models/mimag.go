package models

// MIMAGClass is the MIMAG draft quality tier of a genome.
type MIMAGClass string

const (
	MIMAGHigh   MIMAGClass = "high"
	MIMAGMedium MIMAGClass = "medium"
	MIMAGLow    MIMAGClass = "low"
	// MIMAGNone is used when contamination is 10% or more.
	MIMAGNone MIMAGClass = "none"
)

const (
	minSSULengthBacteria = 1200
	minSSULengthArchaea  = 900
	minLSU23SLength      = 1900
	minLSU5SLength       = 80
	minTRNACount         = 18
)

// ClassifyMIMAG tiers a genome on completeness and contamination alone.
func ClassifyMIMAG(completeness, contamination float64) MIMAGClass {
	switch {
	case completeness > 90 && contamination < 5:
		return MIMAGHigh
	case completeness >= 50 && contamination < 10:
		return MIMAGMedium
	case contamination < 10:
		return MIMAGLow
	default:
		return MIMAGNone
	}
}

// ClassifyGenome tiers g. High quality also requires 23S, 16S and 5S rRNA and
// at least 18 tRNAs; a genome missing them is medium quality. Absent length
// fields count as zero.
func ClassifyGenome(g *Genome) (MIMAGClass, bool) {
	comp, cont, ok := g.Quality()
	if !ok {
		return "", false
	}
	class := ClassifyMIMAG(comp, cont)
	if class != MIMAGHigh {
		return class, true
	}

	ssuThreshold := float64(minSSULengthBacteria)
	if d, ok := g.Field(FieldDomain); ok && d.Text == "d__Archaea" {
		ssuThreshold = minSSULengthArchaea
	}
	if fieldNumber(g, FieldSSULength) >= ssuThreshold &&
		fieldNumber(g, FieldLSU23SLength) >= minLSU23SLength &&
		fieldNumber(g, FieldLSU5SLength) >= minLSU5SLength &&
		fieldNumber(g, FieldTRNACount) >= minTRNACount {
		return MIMAGHigh, true
	}
	return MIMAGMedium, true
}

func fieldNumber(g *Genome, name string) float64 {
	v, ok := g.Field(name)
	if !ok {
		return 0
	}
	f, _ := v.Number()
	return f
}
