package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Box 1 only: business profit of one entrepreneur who meets the hours criterion",
	"Self-employed deduction and small-business exemption from the tax-year table",
	"General and labour credits are rough approximations for planning",
	"Zvw contribution on business profit up to the yearly cap",
	"Quarter projections extrapolate year-to-date profit linearly",
}
