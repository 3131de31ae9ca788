package currency

import "strings"

// Code is a lowercase ISO 4217 currency code, or kin
type Code string

const (
	KIN Code = "kin"
	AED Code = "aed"
	AFN Code = "afn"
	ALL Code = "all"
	AMD Code = "amd"
	ANG Code = "ang"
	AOA Code = "aoa"
	ARS Code = "ars"
	AUD Code = "aud"
	AWG Code = "awg"
	AZN Code = "azn"
	BAM Code = "bam"
	BBD Code = "bbd"
	BDT Code = "bdt"
	BGN Code = "bgn"
	BHD Code = "bhd"
	BIF Code = "bif"
	BMD Code = "bmd"
	BND Code = "bnd"
	BOB Code = "bob"
	BRL Code = "brl"
	BSD Code = "bsd"
	BTN Code = "btn"
	BWP Code = "bwp"
	BYN Code = "byn"
	BZD Code = "bzd"
	CAD Code = "cad"
	CDF Code = "cdf"
	CHF Code = "chf"
	CLP Code = "clp"
	CNY Code = "cny"
	COP Code = "cop"
	CRC Code = "crc"
	CUP Code = "cup"
	CVE Code = "cve"
	CZK Code = "czk"
	DJF Code = "djf"
	DKK Code = "dkk"
	DOP Code = "dop"
	DZD Code = "dzd"
	EGP Code = "egp"
	ERN Code = "ern"
	ETB Code = "etb"
	EUR Code = "eur"
	FJD Code = "fjd"
	FKP Code = "fkp"
	GBP Code = "gbp"
	GEL Code = "gel"
	GHS Code = "ghs"
	GIP Code = "gip"
	GMD Code = "gmd"
	GNF Code = "gnf"
	GTQ Code = "gtq"
	GYD Code = "gyd"
	HKD Code = "hkd"
	HNL Code = "hnl"
	HRK Code = "hrk"
	HTG Code = "htg"
	HUF Code = "huf"
	IDR Code = "idr"
	ILS Code = "ils"
	INR Code = "inr"
	IQD Code = "iqd"
	IRR Code = "irr"
	ISK Code = "isk"
	JMD Code = "jmd"
	JOD Code = "jod"
	JPY Code = "jpy"
	KES Code = "kes"
	KGS Code = "kgs"
	KHR Code = "khr"
	KMF Code = "kmf"
	KPW Code = "kpw"
	KRW Code = "krw"
	KWD Code = "kwd"
	KYD Code = "kyd"
	KZT Code = "kzt"
	LAK Code = "lak"
	LBP Code = "lbp"
	LKR Code = "lkr"
	LRD Code = "lrd"
	LYD Code = "lyd"
	MAD Code = "mad"
	MDL Code = "mdl"
	MGA Code = "mga"
	MKD Code = "mkd"
	MMK Code = "mmk"
	MNT Code = "mnt"
	MOP Code = "mop"
	MRU Code = "mru"
	MUR Code = "mur"
	MVR Code = "mvr"
	MWK Code = "mwk"
	MXN Code = "mxn"
	MYR Code = "myr"
	MZN Code = "mzn"
	NAD Code = "nad"
	NGN Code = "ngn"
	NIO Code = "nio"
	NOK Code = "nok"
	NPR Code = "npr"
	NZD Code = "nzd"
	OMR Code = "omr"
	PAB Code = "pab"
	PEN Code = "pen"
	PGK Code = "pgk"
	PHP Code = "php"
	PKR Code = "pkr"
	PLN Code = "pln"
	PYG Code = "pyg"
	QAR Code = "qar"
	RON Code = "ron"
	RSD Code = "rsd"
	RUB Code = "rub"
	RWF Code = "rwf"
	SAR Code = "sar"
	SBD Code = "sbd"
	SCR Code = "scr"
	SDG Code = "sdg"
	SEK Code = "sek"
	SGD Code = "sgd"
	SHP Code = "shp"
	SLL Code = "sll"
	SOS Code = "sos"
	SRD Code = "srd"
	SSP Code = "ssp"
	STN Code = "stn"
	SYP Code = "syp"
	SZL Code = "szl"
	THB Code = "thb"
	TJS Code = "tjs"
	TMT Code = "tmt"
	TND Code = "tnd"
	TOP Code = "top"
	TRY Code = "try"
	TTD Code = "ttd"
	TWD Code = "twd"
	TZS Code = "tzs"
	UAH Code = "uah"
	UGX Code = "ugx"
	USD Code = "usd"
	UYU Code = "uyu"
	UZS Code = "uzs"
	VES Code = "ves"
	VND Code = "vnd"
	VUV Code = "vuv"
	WST Code = "wst"
	XAF Code = "xaf"
	XCD Code = "xcd"
	XOF Code = "xof"
	XPF Code = "xpf"
	YER Code = "yer"
	ZAR Code = "zar"
	ZMW Code = "zmw"
)

// All is the full set of currencies, in the canonical ordering used by scan
// code payloads. The index of a currency in this list is its wire value, so
// the list is append-only.
var All = []Code{
	KIN, AED, AFN, ALL, AMD, ANG, AOA, ARS, AUD, AWG, AZN, BAM, BBD, BDT, BGN,
	BHD, BIF, BMD, BND, BOB, BRL, BSD, BTN, BWP, BYN, BZD, CAD, CDF, CHF, CLP,
	CNY, COP, CRC, CUP, CVE, CZK, DJF, DKK, DOP, DZD, EGP, ERN, ETB, EUR, FJD,
	FKP, GBP, GEL, GHS, GIP, GMD, GNF, GTQ, GYD, HKD, HNL, HRK, HTG, HUF, IDR,
	ILS, INR, IQD, IRR, ISK, JMD, JOD, JPY, KES, KGS, KHR, KMF, KPW, KRW, KWD,
	KYD, KZT, LAK, LBP, LKR, LRD, LYD, MAD, MDL, MGA, MKD, MMK, MNT, MOP, MRU,
	MUR, MVR, MWK, MXN, MYR, MZN, NAD, NGN, NIO, NOK, NPR, NZD, OMR, PAB, PEN,
	PGK, PHP, PKR, PLN, PYG, QAR, RON, RSD, RUB, RWF, SAR, SBD, SCR, SDG, SEK,
	SGD, SHP, SLL, SOS, SRD, SSP, STN, SYP, SZL, THB, TJS, TMT, TND, TOP, TRY,
	TTD, TWD, TZS, UAH, UGX, USD, UYU, UZS, VES, VND, VUV, WST, XAF, XCD, XOF,
	XPF, YER, ZAR, ZMW,
}

// Parse normalizes a currency code and checks that it is known
func Parse(value string) (Code, bool) {
	code := Code(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range All {
		if known == code {
			return code, true
		}
	}
	return "", false
}

// IsFiat returns whether the currency is a fiat currency
func (c Code) IsFiat() bool {
	return c != KIN
}

func (c Code) String() string {
	return string(c)
}
