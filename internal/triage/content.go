package triage

import "github.com/swasthya-health/swasthya/domain/entities"

var english = Locale{
	Greeting: "Hello! I'm your AI health assistant. I understand you're experiencing {health_type} health concerns. Please describe your symptoms in detail, and I'll help analyze them and provide guidance. You can speak or type in your preferred language.",
	Closing:  "Thank you for providing all this information. I have enough details to provide you with a comprehensive assessment and recommendations. Would you like to proceed to get your results?",
	HealthTypes: map[entities.HealthType]string{
		entities.HealthTypePhysical: "physical",
		entities.HealthTypeMental:   "mental",
	},
	Templates: map[string]string{
		templateEmergency: "⚠️ EMERGENCY ALERT: Your symptoms suggest a serious medical emergency. Please call 108 immediately or go to the nearest emergency room. Do not delay seeking immediate medical attention.",
		templateHigh:      "I understand you're experiencing {symptoms}. These symptoms require prompt medical attention. I recommend consulting with a healthcare provider within the next 24 hours. Let me ask you a few questions to better understand your condition.",
		templateMedium:    "Thank you for sharing your symptoms: {symptoms}. While these symptoms are concerning, they don't appear to be immediately life-threatening. Let me gather more information to provide you with the best guidance.",
		templateLow:       "I've noted your symptoms: {symptoms}. These appear to be mild symptoms that can often be managed with self-care. Let me ask you some questions to provide personalized recommendations.",
	},
	FollowUps: map[entities.UrgencyLevel][]string{
		entities.UrgencyHigh: {
			"When did these symptoms first start?",
			"On a scale of 1-10, how would you rate your pain or discomfort?",
			"Have you taken any medications for these symptoms?",
			"Do you have any known allergies or medical conditions?",
		},
		entities.UrgencyMedium: {
			"How long have you been experiencing these symptoms?",
			"Have the symptoms gotten worse, better, or stayed the same?",
			"Are you currently taking any medications?",
			"Have you experienced anything like this before?",
		},
		entities.UrgencyLow: {
			"When did you first notice these symptoms?",
			"What seems to make the symptoms better or worse?",
			"Are you getting enough rest and staying hydrated?",
			"Have you been under any unusual stress lately?",
		},
	},
	Script: []string{
		"Thank you for that information. Can you tell me more about when these symptoms typically occur?",
		"I understand. Have you noticed any specific triggers that make your symptoms worse?",
		"That's helpful to know. Are you currently taking any medications or supplements?",
		"Based on what you've shared, I'd like to know if you've experienced anything similar before?",
		"I see. How would you describe your overall energy levels and sleep patterns recently?",
		"Thank you for the details. Have you made any recent changes to your diet or lifestyle?",
		"That's important information. Do you have any family history of similar conditions?",
		"I appreciate you sharing that. How has this been affecting your daily activities?",
		"Based on our conversation, I'm getting a clearer picture. Let me provide you with some recommendations.",
	},
}

var hindi = Locale{
	Greeting: "नमस्ते! मैं आपका AI स्वास्थ्य सहायक हूं। मैं समझता हूं कि आप {health_type} स्वास्थ्य संबंधी चिंताओं का अनुभव कर रहे हैं। कृपया अपने लक्षणों का विस्तार से वर्णन करें, और मैं उनका विश्लेषण करने और मार्गदर्शन देने में आपकी मदद करूंगा। आप अपनी पसंदीदा भाषा में बोल या टाइप कर सकते हैं।",
	Closing:  "यह सारी जानकारी देने के लिए धन्यवाद। मेरे पास आपको एक व्यापक मूल्यांकन और सिफारिशें प्रदान करने के लिए पर्याप्त विवरण हैं। क्या आप अपने परिणाम प्राप्त करने के लिए आगे बढ़ना चाहेंगे?",
	HealthTypes: map[entities.HealthType]string{
		entities.HealthTypePhysical: "शारीरिक",
		entities.HealthTypeMental:   "मानसिक",
	},
	Templates: map[string]string{
		templateEmergency: "⚠️ आपातकालीन चेतावनी: आपके लक्षण गंभीर चिकित्सा आपातकाल का संकेत देते हैं। कृपया तुरंत 108 पर कॉल करें या निकटतम आपातकालीन कक्ष में जाएं।",
		templateHigh:      "मैं समझता हूं कि आप {symptoms} का अनुभव कर रहे हैं। इन लक्षणों के लिए तत्काल चिकित्सा ध्यान की आवश्यकता है। मैं अगले 24 घंटों के भीतर एक स्वास्थ्य सेवा प्रदाता से सलाह लेने की सलाह देता हूं।",
		templateMedium:    "आपके लक्षण साझा करने के लिए धन्यवाद: {symptoms}। जबकि ये लक्षण चिंताजनक हैं, वे तुरंत जीवन-घातक नहीं लगते। आपको सबसे अच्छा मार्गदर्शन प्रदान करने के लिए मुझे और जानकारी एकत्र करने दें।",
		templateLow:       "मैंने आपके लक्षणों को नोट किया है: {symptoms}। ये हल्के लक्षण प्रतीत होते हैं जिन्हें अक्सर स्व-देखभाल से प्रबंधित किया जा सकता है। व्यक्तिगत सिफारिशें प्रदान करने के लिए मुझे कुछ प्रश्न पूछने दें।",
	},
	FollowUps: map[entities.UrgencyLevel][]string{
		entities.UrgencyHigh: {
			"ये लक्षण पहली बार कब शुरू हुए?",
			"1-10 के पैमाने पर, आप अपने दर्द या परेशानी को कैसे रेट करेंगे?",
			"क्या आपने इन लक्षणों के लिए कोई दवा ली है?",
			"क्या आपको कोई ज्ञात एलर्जी या चिकित्सा स्थितियां हैं?",
		},
		entities.UrgencyMedium: {
			"आप कितने समय से इन लक्षणों का अनुभव कर रहे हैं?",
			"क्या लक्षण बदतर हुए हैं, बेहतर हुए हैं, या वही रहे हैं?",
			"क्या आप वर्तमान में कोई दवा ले रहे हैं?",
			"क्या आपने पहले कभी ऐसा कुछ अनुभव किया है?",
		},
		entities.UrgencyLow: {
			"आपने पहली बार इन लक्षणों को कब नोटिस किया?",
			"क्या लगता है कि लक्षणों को बेहतर या बदतर बनाता है?",
			"क्या आप पर्याप्त आराम कर रहे हैं और हाइड्रेटेड रह रहे हैं?",
			"क्या आप हाल ही में किसी असामान्य तनाव में रहे हैं?",
		},
	},
	Script: []string{
		"उस जानकारी के लिए धन्यवाद। क्या आप मुझे बता सकते हैं कि ये लक्षण आमतौर पर कब होते हैं?",
		"मैं समझता हूं। क्या आपने कोई विशिष्ट ट्रिगर देखे हैं जो आपके लक्षणों को बदतर बनाते हैं?",
		"यह जानना उपयोगी है। क्या आप वर्तमान में कोई दवा या सप्लीमेंट ले रहे हैं?",
		"आपने जो साझा किया है उसके आधार पर, मैं जानना चाहूंगा कि क्या आपने पहले कभी ऐसा कुछ अनुभव किया है?",
		"मैं देख रहा हूं। आप हाल ही में अपने समग्र ऊर्जा स्तर और नींद के पैटर्न का वर्णन कैसे करेंगे?",
	},
}

// Tamil has no authored follow-up questions; those come from English.
var tamil = Locale{
	Greeting: "வணக்கம்! நான் உங்கள் AI சுகாதார உதவியாளர். நீங்கள் {health_type} சுகாதார கவலைகளை அனுபவிப்பதை நான் புரிந்துகொள்கிறேன். உங்கள் அறிகுறிகளை விரிவாக விவரிக்கவும், அவற்றை பகுப்பாய்வு செய்து வழிகாட்டுதலை வழங்க நான் உதவுவேன். நீங்கள் விரும்பும் மொழியில் பேசலாம் அல்லது தட்டச்சு செய்யலாம்.",
	Closing:  "இந்த எல்லா தகவல்களையும் வழங்கியதற்கு நன்றி. உங்களுக்கு விரிவான மதிப்பீடு மற்றும் பரிந்துரைகளை வழங்க போதுமான விவரங்கள் என்னிடம் உள்ளன. உங்கள் முடிவுகளைப் பெற தொடர விரும்புகிறீர்களா?",
	HealthTypes: map[entities.HealthType]string{
		entities.HealthTypePhysical: "உடல்",
		entities.HealthTypeMental:   "மன",
	},
	Templates: map[string]string{
		templateEmergency: "⚠️ அவசர எச்சரிக்கை: உங்கள் அறிகுறிகள் கடுமையான மருத்துவ அவசரநிலையைக் குறிக்கின்றன। உடனடியாக 108 ஐ அழைக்கவும் அல்லது அருகிலுள்ள அவசர அறைக்குச் செல்லவும்।",
		templateHigh:      "நீங்கள் {symptoms} அனுபவித்து வருவதை நான் புரிந்துகொள்கிறேன். இந்த அறிகுறிகளுக்கு உடனடி மருத்துவ கவனம் தேவை। அடுத்த 24 மணி நேரத்திற்குள் ஒரு சுகாதார வழங்குநரை அணுக பரிந்துரைக்கிறேன்।",
		templateMedium:    "உங்கள் அறிகுறிகளைப் பகிர்ந்ததற்கு நன்றி: {symptoms}। இந்த அறிகுறிகள் கவலைக்குரியவை என்றாலும், அவை உடனடியாக உயிருக்கு ஆபத்தானவை அல்ல. உங்களுக்கு சிறந்த வழிகாட்டுதலை வழங்க மேலும் தகவல்களை சேகரிக்கிறேன்.",
		templateLow:       "உங்கள் அறிகுறிகளை நான் குறித்துக்கொண்டேன்: {symptoms}। இவை பெரும்பாலும் சுய-பராமரிப்பால் நிர்வகிக்கப்படக்கூடிய லேசான அறிகுறிகளாகத் தோன்றுகின்றன. தனிப்பயனாக்கப்பட்ட பரிந்துரைகளை வழங்க சில கேள்விகளைக் கேட்கிறேன்.",
	},
	Script: []string{
		"அந்த தகவலுக்கு நன்றி। இந்த அறிகுறிகள் பொதுவாக எப்போது ஏற்படுகின்றன என்பதை மேலும் சொல்ல முடியுமா?",
		"நான் புரிந்துகொள்கிறேன். உங்கள் அறிகுறிகளை மோசமாக்கும் குறிப்பிட்ட தூண்டுதல்களை நீங்கள் கவனித்திருக்கிறீர்களா?",
		"அது தெரிந்துகொள்ள உதவியாக இருக்கிறது। நீங்கள் தற்போது ஏதேனும் மருந்துகள் அல்லது சப்ளிமெண்ட்ஸ் எடுத்துக்கொண்டிருக்கிறீர்களா?",
		"நீங்கள் பகிர்ந்ததின் அடிப்படையில், இதுபோன்ற ஏதாவது முன்பு அனுபவித்திருக்கிறீர்களா என்பதை அறிய விரும்புகிறேன்?",
	},
}
