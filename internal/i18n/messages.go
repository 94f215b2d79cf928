package i18n

// messages maps a message key to its translations per language code.
var messages = map[string]map[string]string{
	// Auth and account errors.
	"auth.invalid_credentials": {
		"fr": "Identifiants invalides",
		"en": "Invalid credentials",
	},
	"auth.account_disabled": {
		"fr": "Compte désactivé",
		"en": "Account disabled",
	},
	"auth.invalid_code": {
		"fr": "Code de vérification invalide ou expiré",
		"en": "Invalid or expired verification code",
	},
	"users.email_or_phone_exists": {
		"fr": "Un compte existe déjà avec cet email ou ce numéro de téléphone",
		"en": "An account already exists with this email or phone number",
	},
	"users.not_found": {
		"fr": "Utilisateur non trouvé",
		"en": "User not found",
	},

	// Generic API errors.
	"errors.not_found": {
		"fr": "Ressource non trouvée",
		"en": "Resource not found",
	},
	"errors.forbidden": {
		"fr": "Accès refusé",
		"en": "Access denied",
	},

	// Analysis alert notifications. Args: identifier then measured value.
	"alerts.poultry.low_laying_rate.title": {
		"fr": "Taux de ponte faible (lot %s)",
		"en": "Low laying rate (flock %s)",
	},
	"alerts.poultry.low_laying_rate.body": {
		"fr": "Le taux de ponte moyen du lot %s est de %.1f%%, en dessous des normes attendues.",
		"en": "Mean laying rate for flock %s is %.1f%%, below expected standards.",
	},
	"alerts.poultry.low_laying_rate.recommendation": {
		"fr": "Vérifiez l'alimentation, la santé des volailles et les conditions d'élevage.",
		"en": "Check feed, bird health, and housing conditions.",
	},
	"alerts.poultry.high_mortality.title": {
		"fr": "Mortalité élevée (lot %s)",
		"en": "High mortality (flock %s)",
	},
	"alerts.poultry.high_mortality.body": {
		"fr": "Le taux de mortalité du lot %s atteint %.1f%%.",
		"en": "Mortality rate for flock %s has reached %.1f%%.",
	},
	"alerts.poultry.high_mortality.recommendation": {
		"fr": "Une visite vétérinaire est recommandée sans délai.",
		"en": "A veterinary visit is recommended without delay.",
	},
	"alerts.poultry.high_broken_rate.title": {
		"fr": "Taux de casse élevé (lot %s)",
		"en": "High broken-egg rate (flock %s)",
	},
	"alerts.poultry.high_broken_rate.body": {
		"fr": "Le taux d'œufs cassés du lot %s est de %.1f%%.",
		"en": "Broken-egg rate for flock %s is %.1f%%.",
	},
	"alerts.poultry.high_broken_rate.recommendation": {
		"fr": "Vérifiez la fréquence de ramassage et l'apport en calcium.",
		"en": "Check collection frequency and calcium intake.",
	},
	"alerts.fishery.water_out_of_range.title": {
		"fr": "Qualité de l'eau dégradée (bassin %s)",
		"en": "Degraded water quality (pond %s)",
	},
	"alerts.fishery.water_out_of_range.body": {
		"fr": "La qualité de l'eau du bassin %s est classée %s (oxygène dissous %.2f mg/l, ammoniaque %.2f mg/l).",
		"en": "Water quality in pond %s is graded %s (dissolved oxygen %.2f mg/l, ammonia %.2f mg/l).",
	},
	"alerts.fishery.water_out_of_range.recommendation": {
		"fr": "Contrôlez l'aération et la filtration, et renouvelez une partie de l'eau si nécessaire.",
		"en": "Check aeration and filtration, and renew part of the water if needed.",
	},

	// Email subjects.
	"email.verification.subject": {
		"fr": "Bienvenue sur FarmTrack : votre code de vérification",
		"en": "Welcome to FarmTrack: your verification code",
	},
	"email.alert.subject": {
		"fr": "Alerte FarmTrack : %s",
		"en": "FarmTrack alert: %s",
	},
}
