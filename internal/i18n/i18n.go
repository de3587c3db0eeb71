// Package i18n holds the static UI text for every supported language.
package i18n

import (
	"errors"

	"github.com/hammamikhairi/yojana/internal/domain"
)

// Text is the full set of UI strings for one language.
type Text struct {
	AppName  string
	Tagline  string
	Language string // name of the language in itself

	LoginTitle  string
	MobileLabel string
	LoginButton string

	WelcomeTitle string
	WelcomeDesc  string
	FindSchemes  string

	ProfileTitle string
	AgeLabel     string
	GenderLabel  string
	IncomeLabel  string
	IncomeDesc   string
	StateLabel   string
	OccLabel     string
	CatLabel     string
	ShowSchemes  string
	Required     string

	LoadingTitle string
	LoadingDesc  string

	ResultsTitle  string
	QuickSummary  string
	NoSchemes     string
	WhatIsThis    string
	WhoCanApply   string
	KeyBenefits   string
	HowToApply    string
	OfficialSite  string
	Listen        string
	StopListen    string
	Preparing     string
	ChangeDetails string

	ErrorTitle     string
	TryAgain       string
	ErrValidation  string
	ErrGeneration  string
	ErrSpeech      string
	ErrBusy        string
	ErrUnknown     string
	Back           string
	Disclaimer     string
	KeysHelp       string
	GenderHint     string
	CategoryHint   string
	OccupationHint string
}

var texts = map[domain.Language]Text{
	domain.LangGujarati: {
		AppName:        "યોજના શોધક",
		Tagline:        "સરકારી કલ્યાણ યોજનાઓ, તમારી ભાષામાં",
		Language:       "ગુજરાતી",
		LoginTitle:     "લૉગિન",
		MobileLabel:    "મોબાઇલ નંબર (10 અંક)",
		LoginButton:    "આગળ વધો",
		WelcomeTitle:   "નમસ્તે!",
		WelcomeDesc:    "તમારી વિગતો આપો અને તમારા માટે યોગ્ય સરકારી યોજનાઓ શોધો.",
		FindSchemes:    "યોજનાઓ શોધો",
		ProfileTitle:   "અરજદારની વિગતો",
		AgeLabel:       "ઉંમર",
		GenderLabel:    "જાતિ",
		IncomeLabel:    "વાર્ષિક કૌટુંબિક આવક (₹)",
		IncomeDesc:     "ફક્ત અંકો",
		StateLabel:     "રાજ્ય",
		OccLabel:       "વ્યવસાય",
		CatLabel:       "સામાજિક વર્ગ",
		ShowSchemes:    "યોજનાઓ બતાવો",
		Required:       "બધી વિગતો ફરજિયાત છે",
		LoadingTitle:   "યોજનાઓ શોધી રહ્યા છીએ...",
		LoadingDesc:    "તમારી વિગતો મુજબ યોગ્ય યોજનાઓ તપાસી રહ્યા છીએ.",
		ResultsTitle:   "તમારા માટે યોજનાઓ",
		QuickSummary:   "ટૂંકો સારાંશ",
		NoSchemes:      "કોઈ યોગ્ય યોજના મળી નથી.",
		WhatIsThis:     "આ શું છે?",
		WhoCanApply:    "કોણ અરજી કરી શકે?",
		KeyBenefits:    "મુખ્ય લાભો",
		HowToApply:     "કેવી રીતે અરજી કરવી",
		OfficialSite:   "સત્તાવાર વેબસાઇટ",
		Listen:         "સાંભળો",
		StopListen:     "બંધ કરો",
		Preparing:      "અવાજ તૈયાર થઈ રહ્યો છે...",
		ChangeDetails:  "વિગતો બદલો",
		ErrorTitle:     "કંઈક ખોટું થયું",
		TryAgain:       "ફરી પ્રયાસ કરો",
		ErrValidation:  "કૃપા કરીને તમારી વિગતો તપાસો.",
		ErrGeneration:  "યોજનાઓ મળી શકી નથી. કનેક્શન તપાસો અને ફરી પ્રયાસ કરો.",
		ErrSpeech:      "અવાજ ઉપલબ્ધ નથી.",
		ErrBusy:        "કૃપા કરીને રાહ જુઓ, વિનંતી ચાલુ છે.",
		ErrUnknown:     "અજાણી ભૂલ.",
		Back:           "પાછા",
		Disclaimer:     "માહિતી AI દ્વારા તૈયાર કરવામાં આવી છે. અરજી કરતા પહેલા સત્તાવાર પોર્ટલ પર ખાતરી કરો.",
		KeysHelp:       "ctrl+l ભાષા · ctrl+t થીમ · esc પાછા · ctrl+c બહાર",
		GenderHint:     "Male / Female / Other",
		CategoryHint:   "General / OBC / SC / ST",
		OccupationHint: "ખેડૂત, મજૂર, વિદ્યાર્થી...",
	},
	domain.LangHindi: {
		AppName:        "योजना खोजक",
		Tagline:        "सरकारी कल्याण योजनाएँ, आपकी भाषा में",
		Language:       "हिन्दी",
		LoginTitle:     "लॉगिन",
		MobileLabel:    "मोबाइल नंबर (10 अंक)",
		LoginButton:    "आगे बढ़ें",
		WelcomeTitle:   "नमस्ते!",
		WelcomeDesc:    "अपनी जानकारी दें और अपने लिए सही सरकारी योजनाएँ खोजें।",
		FindSchemes:    "योजनाएँ खोजें",
		ProfileTitle:   "आवेदक का विवरण",
		AgeLabel:       "आयु",
		GenderLabel:    "लिंग",
		IncomeLabel:    "वार्षिक पारिवारिक आय (₹)",
		IncomeDesc:     "केवल अंक",
		StateLabel:     "राज्य",
		OccLabel:       "व्यवसाय",
		CatLabel:       "सामाजिक वर्ग",
		ShowSchemes:    "योजनाएँ दिखाएँ",
		Required:       "सभी विवरण अनिवार्य हैं",
		LoadingTitle:   "योजनाएँ खोज रहे हैं...",
		LoadingDesc:    "आपकी जानकारी के अनुसार योजनाएँ जाँची जा रही हैं।",
		ResultsTitle:   "आपके लिए योजनाएँ",
		QuickSummary:   "संक्षिप्त सारांश",
		NoSchemes:      "कोई उपयुक्त योजना नहीं मिली।",
		WhatIsThis:     "यह क्या है?",
		WhoCanApply:    "कौन आवेदन कर सकता है?",
		KeyBenefits:    "मुख्य लाभ",
		HowToApply:     "आवेदन कैसे करें",
		OfficialSite:   "आधिकारिक वेबसाइट",
		Listen:         "सुनें",
		StopListen:     "बंद करें",
		Preparing:      "आवाज़ तैयार हो रही है...",
		ChangeDetails:  "विवरण बदलें",
		ErrorTitle:     "कुछ गलत हो गया",
		TryAgain:       "फिर से प्रयास करें",
		ErrValidation:  "कृपया अपना विवरण जाँचें।",
		ErrGeneration:  "योजनाएँ नहीं मिल सकीं। कनेक्शन जाँचें और फिर से प्रयास करें।",
		ErrSpeech:      "आवाज़ उपलब्ध नहीं है।",
		ErrBusy:        "कृपया प्रतीक्षा करें, अनुरोध जारी है।",
		ErrUnknown:     "अज्ञात त्रुटि।",
		Back:           "वापस",
		Disclaimer:     "जानकारी AI द्वारा तैयार की गई है। आवेदन से पहले आधिकारिक पोर्टल पर पुष्टि करें।",
		KeysHelp:       "ctrl+l भाषा · ctrl+t थीम · esc वापस · ctrl+c बाहर",
		GenderHint:     "Male / Female / Other",
		CategoryHint:   "General / OBC / SC / ST",
		OccupationHint: "किसान, मजदूर, छात्र...",
	},
	domain.LangEnglish: {
		AppName:        "Scheme Finder",
		Tagline:        "Government welfare schemes, in your language",
		Language:       "English",
		LoginTitle:     "Login",
		MobileLabel:    "Mobile number (10 digits)",
		LoginButton:    "Continue",
		WelcomeTitle:   "Welcome!",
		WelcomeDesc:    "Tell us about yourself and find the government schemes meant for you.",
		FindSchemes:    "Find schemes",
		ProfileTitle:   "Applicant details",
		AgeLabel:       "Age",
		GenderLabel:    "Gender",
		IncomeLabel:    "Annual family income (₹)",
		IncomeDesc:     "digits only",
		StateLabel:     "State",
		OccLabel:       "Occupation",
		CatLabel:       "Social category",
		ShowSchemes:    "Show schemes",
		Required:       "All details are required",
		LoadingTitle:   "Finding schemes...",
		LoadingDesc:    "Checking schemes that match your details.",
		ResultsTitle:   "Schemes for you",
		QuickSummary:   "Quick summary",
		NoSchemes:      "No matching schemes found.",
		WhatIsThis:     "What is this?",
		WhoCanApply:    "Who can apply?",
		KeyBenefits:    "Key benefits",
		HowToApply:     "How to apply",
		OfficialSite:   "Official website",
		Listen:         "Listen",
		StopListen:     "Stop",
		Preparing:      "Preparing audio...",
		ChangeDetails:  "Change details",
		ErrorTitle:     "Something went wrong",
		TryAgain:       "Try again",
		ErrValidation:  "Please check your details.",
		ErrGeneration:  "Could not fetch schemes. Check your connection and try again.",
		ErrSpeech:      "Audio is unavailable.",
		ErrBusy:        "Please wait, a request is already running.",
		ErrUnknown:     "Unknown error.",
		Back:           "Back",
		Disclaimer:     "Information is AI-generated. Confirm on the official portal before applying.",
		KeysHelp:       "ctrl+l language · ctrl+t theme · esc back · ctrl+c quit",
		GenderHint:     "Male / Female / Other",
		CategoryHint:   "General / OBC / SC / ST",
		OccupationHint: "Farmer, Labourer, Student...",
	},
}

// For returns the UI text for lang, falling back to the default language.
func For(lang domain.Language) Text {
	if t, ok := texts[lang]; ok {
		return t
	}
	return texts[domain.DefaultLanguage]
}

// ErrorMessage maps an error to the localized message for its kind.
func ErrorMessage(lang domain.Language, err error) string {
	t := For(lang)
	if errors.Is(err, domain.ErrRequestInFlight) {
		return t.ErrBusy
	}
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return t.ErrValidation
	case domain.ErrGeneration:
		return t.ErrGeneration
	case domain.ErrSpeechGeneration, domain.ErrDecode:
		return t.ErrSpeech
	default:
		return t.ErrUnknown
	}
}
