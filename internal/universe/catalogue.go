package universe

// Index constituents, exchange codes without the .JK suffix.
var (
	lq45Codes = []string{
		"AALI", "ADRO", "AKRA", "AMMN", "ANTM", "ASII", "BBCA", "BBNI", "BBRI", "BBTN", "BMRI",
		"BRIS", "BRPT", "BSDE", "CPIN", "EMTK", "ERAA", "ESSA", "EXCL", "GGRM", "GOTO", "HRUM",
		"ICBP", "INCO", "INDF", "INKP", "INTP", "ITMG", "JPFA", "KLBF", "MDKA", "MIKA", "PGAS",
		"PGEO", "PTBA", "PTPP", "SMGR", "TBIG", "TKIM", "TLKM", "TOWR", "UNTR", "UNVR", "WIKA",
		"WSKT",
	}
	idx80Codes = []string{
		"AALI", "ADRO", "AKRA", "AMMN", "ANTM", "ASII", "BBCA", "BBNI", "BBRI", "BBTN", "BMRI",
		"BRIS", "BRPT", "BSDE", "CPIN", "EMTK", "ERAA", "ESSA", "EXCL", "GGRM", "GOTO", "HRUM",
		"ICBP", "INCO", "INDF", "INKP", "INTP", "ITMG", "JPFA", "KLBF", "MDKA", "MIKA", "PGAS",
		"PGEO", "PTBA", "PTPP", "SMGR", "TBIG", "TKIM", "TLKM", "TOWR", "UNTR", "UNVR", "WIKA",
		"WSKT", "ACES", "ARTO", "BBKP", "BFIN", "BJBR", "BJTM", "BUKA", "CTRA", "DOID", "ELSA",
		"HMSP", "ISAT", "JSMR", "MAPI", "MBMA", "MCOL", "MEDC", "MNCN", "MYOR", "PANI", "PNBN",
		"PNLF", "PWON", "SCMA", "SIDO", "SMBR", "SMRA", "SRTG", "TPIA", "TRIN", "WTON", "HEAL",
		"BYAN", "FILM", "SGER",
	}
	msciBigCapCodes = []string{
		"ASII", "BBCA", "BBNI", "BBRI", "BMRI", "GGRM", "ICBP", "INDF", "KLBF", "TLKM", "UNTR",
		"UNVR", "ADRO", "AMMN", "ANTM", "CPIN", "EMTK", "EXCL", "GOTO", "INCO", "INKP", "INTP",
		"ITMG", "PGAS", "PTBA", "SMGR", "TBIG", "TOWR",
	}
	msciMidCapCodes = []string{
		"ACES", "AKRA", "ARTO", "BBTN", "BRIS", "BRPT", "BSDE", "BUKA", "ERAA", "ESSA", "HRUM",
		"JPFA", "MDKA", "MIKA", "PGEO", "PTPP", "TKIM", "WIKA", "WSKT", "BBKP", "BFIN", "BJBR",
		"BJTM", "CTRA", "DOID", "ELSA", "HMSP", "ISAT", "JSMR", "MAPI", "MBMA", "MCOL", "MEDC",
		"MNCN", "MYOR", "PANI", "PNBN", "PNLF", "PWON", "SCMA", "SIDO", "SMBR", "SMRA", "SRTG",
		"TPIA", "TRIN", "WTON",
	}
	msciSmallCapCodes = []string{
		"AALI", "ADMR", "ADHI", "AMRT", "APLN", "ASRI", "AUTO", "AVIA", "BBHI", "BDMN", "BELI",
		"BNGA", "BTPS", "CMRY", "DEWA", "DILD", "DSNG", "ENRG", "GIAA", "GJTL", "HEAL", "INDY",
		"KAEF", "LPPF", "LSIP", "MAYA", "MAPA", "MPPA", "NCKL", "NKEK", "PANR", "PBRX", "PSAB",
		"RAJA", "RALS", "SSIA", "TAPG", "UCID", "BYAN", "FILM", "SGER", "MERK", "MTEL", "TOWR",
	}
	kompas100ProxyCodes = []string{
		"ACES", "ADRO", "AKRA", "AMRT", "ANTM", "ARTO", "ASII", "BBCA", "BBNI", "BBRI", "BBTN",
		"BMRI", "BRIS", "BRPT", "BUKA", "CPIN", "EMTK", "ESSA", "EXCL", "GGRM", "GOTO", "HRUM",
		"ICBP", "INCO", "INDF", "INKP", "INTP", "ITMG", "KLBF", "MAPI", "MBMA", "MDKA", "MEDC",
		"MERK", "MTEL", "PGAS", "PGEO", "PTBA", "SIDO", "SMGR", "SRTG", "TBIG", "TINS", "TLKM",
		"TOWR", "UNTR", "UNVR", "ADMR", "AMMN", "ASRI", "AUTO", "AVIA", "BBHI", "BBYB", "BDMN",
		"BELI", "BFIN", "BJBR", "BJTM", "BNGA", "BSDE", "BTPS", "CMRY", "CTRA", "DEWA", "DILD",
		"DOID", "DSNG", "ELSA", "ENRG", "ERAA", "GIAA", "GJTL", "HEAL", "HMSP", "INDY", "ISAT",
		"JPFA", "JSMR", "KAEF", "LPPF", "LSIP", "MAYA", "MAPA", "MCOL", "MIKA", "MNCN", "MPPA",
		"MYOR", "NCKL", "PANR", "PANI", "PBRX", "PNBN", "PNLF", "PSAB", "PTPP", "PWON", "RAJA",
		"RALS", "SCMA", "SGER", "SMBR", "SMRA", "SSIA", "TAPG", "TKIM", "TPIA", "TRIN", "UCID",
		"WIKA", "WTON",
	}
)
