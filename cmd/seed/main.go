package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/naebak/admin-service/internal/config"
	"github.com/naebak/admin-service/internal/database"
	"github.com/naebak/admin-service/internal/models"
)

// Seeds the reference catalogs, permission catalog, system roles, settings
// and the default super admin. Safe to run repeatedly: existing rows are
// matched on their natural keys and left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	fmt.Println("✓ Database migrated successfully")

	seedGovernorates(db)
	seedParties(db)
	seedComplaintTypes(db)
	perms := seedPermissions(db)
	seedRoles(db, perms)
	seedSettings(db)
	seedDefaultAdmin(db)

	fmt.Println("✓ Seeding complete")
}

func f64(v float64) *float64 { return &v }
func up(v uint) *uint        { return &v }

func date(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Fatalf("bad seed date %q: %v", value, err)
	}
	return &t
}

func seedGovernorates(db *gorm.DB) {
	governorates := []models.Governorate{
		{Name: "القاهرة", NameEN: "Cairo", Code: "CAI", Region: models.RegionGreaterCairo, Capital: "القاهرة", AreaKM2: f64(606), Population: up(10230350), Enabled: true, DisplayOrder: 1},
		{Name: "الجيزة", NameEN: "Giza", Code: "GIZ", Region: models.RegionGreaterCairo, Capital: "الجيزة", AreaKM2: f64(13184), Population: up(9200000), Enabled: true, DisplayOrder: 2},
		{Name: "القليوبية", NameEN: "Qalyubia", Code: "QLY", Region: models.RegionGreaterCairo, Capital: "بنها", AreaKM2: f64(1124), Population: up(5915000), Enabled: true, DisplayOrder: 3},
		{Name: "الإسكندرية", NameEN: "Alexandria", Code: "ALX", Region: models.RegionDelta, Capital: "الإسكندرية", AreaKM2: f64(2300), Population: up(5450000), Enabled: true, DisplayOrder: 4},
		{Name: "البحيرة", NameEN: "Beheira", Code: "BEH", Region: models.RegionDelta, Capital: "دمنهور", AreaKM2: f64(9826), Population: up(6500000), Enabled: true, DisplayOrder: 5},
		{Name: "المنوفية", NameEN: "Monufia", Code: "MNF", Region: models.RegionDelta, Capital: "شبين الكوم", AreaKM2: f64(2499), Population: up(4500000), Enabled: true, DisplayOrder: 6},
		{Name: "الغربية", NameEN: "Gharbia", Code: "GHR", Region: models.RegionDelta, Capital: "طنطا", AreaKM2: f64(1942), Population: up(5100000), Enabled: true, DisplayOrder: 7},
		{Name: "كفر الشيخ", NameEN: "Kafr el-Sheikh", Code: "KFS", Region: models.RegionDelta, Capital: "كفر الشيخ", AreaKM2: f64(3437), Population: up(3400000), Enabled: true, DisplayOrder: 8},
		{Name: "الدقهلية", NameEN: "Dakahlia", Code: "DKH", Region: models.RegionDelta, Capital: "المنصورة", AreaKM2: f64(3459), Population: up(6700000), Enabled: true, DisplayOrder: 9},
		{Name: "دمياط", NameEN: "Damietta", Code: "DMT", Region: models.RegionDelta, Capital: "دمياط", AreaKM2: f64(910), Population: up(1500000), Enabled: true, DisplayOrder: 10},
		{Name: "الشرقية", NameEN: "Sharqia", Code: "SHR", Region: models.RegionDelta, Capital: "الزقازيق", AreaKM2: f64(4180), Population: up(7500000), Enabled: true, DisplayOrder: 11},
		{Name: "بورسعيد", NameEN: "Port Said", Code: "PTS", Region: models.RegionCanal, Capital: "بورسعيد", AreaKM2: f64(1345), Population: up(750000), Enabled: true, DisplayOrder: 12},
		{Name: "الإسماعيلية", NameEN: "Ismailia", Code: "ISM", Region: models.RegionCanal, Capital: "الإسماعيلية", AreaKM2: f64(1442), Population: up(1400000), Enabled: true, DisplayOrder: 13},
		{Name: "السويس", NameEN: "Suez", Code: "SUZ", Region: models.RegionCanal, Capital: "السويس", AreaKM2: f64(9002), Population: up(750000), Enabled: true, DisplayOrder: 14},
		{Name: "شمال سيناء", NameEN: "North Sinai", Code: "NSI", Region: models.RegionSinai, Capital: "العريش", AreaKM2: f64(27574), Population: up(450000), Enabled: true, DisplayOrder: 15},
		{Name: "جنوب سيناء", NameEN: "South Sinai", Code: "SSI", Region: models.RegionSinai, Capital: "الطور", AreaKM2: f64(31272), Population: up(200000), Enabled: true, DisplayOrder: 16},
		{Name: "البحر الأحمر", NameEN: "Red Sea", Code: "RSE", Region: models.RegionRedSea, Capital: "الغردقة", AreaKM2: f64(203685), Population: up(400000), Enabled: true, DisplayOrder: 17},
		{Name: "الفيوم", NameEN: "Faiyum", Code: "FYM", Region: models.RegionUpperEgypt, Capital: "الفيوم", AreaKM2: f64(6068), Population: up(3700000), Enabled: true, DisplayOrder: 18},
		{Name: "بني سويف", NameEN: "Beni Suef", Code: "BSW", Region: models.RegionUpperEgypt, Capital: "بني سويف", AreaKM2: f64(10954), Population: up(3300000), Enabled: true, DisplayOrder: 19},
		{Name: "المنيا", NameEN: "Minya", Code: "MNY", Region: models.RegionUpperEgypt, Capital: "المنيا", AreaKM2: f64(32279), Population: up(5700000), Enabled: true, DisplayOrder: 20},
		{Name: "أسيوط", NameEN: "Asyut", Code: "ASY", Region: models.RegionUpperEgypt, Capital: "أسيوط", AreaKM2: f64(25926), Population: up(4500000), Enabled: true, DisplayOrder: 21},
		{Name: "الوادي الجديد", NameEN: "New Valley", Code: "NVL", Region: models.RegionUpperEgypt, Capital: "الخارجة", AreaKM2: f64(376505), Population: up(250000), Enabled: true, DisplayOrder: 22},
		{Name: "سوهاج", NameEN: "Sohag", Code: "SOH", Region: models.RegionUpperEgypt, Capital: "سوهاج", AreaKM2: f64(11218), Population: up(5200000), Enabled: true, DisplayOrder: 23},
		{Name: "قنا", NameEN: "Qena", Code: "QNA", Region: models.RegionUpperEgypt, Capital: "قنا", AreaKM2: f64(8980), Population: up(3200000), Enabled: true, DisplayOrder: 24},
		{Name: "الأقصر", NameEN: "Luxor", Code: "LXR", Region: models.RegionUpperEgypt, Capital: "الأقصر", AreaKM2: f64(2409), Population: up(1400000), Enabled: true, DisplayOrder: 25},
		{Name: "أسوان", NameEN: "Aswan", Code: "ASW", Region: models.RegionUpperEgypt, Capital: "أسوان", AreaKM2: f64(62726), Population: up(1600000), Enabled: true, DisplayOrder: 26},
		{Name: "مطروح", NameEN: "Matrouh", Code: "MTR", Region: models.RegionRedSea, Capital: "مرسى مطروح", AreaKM2: f64(166563), Population: up(500000), Enabled: true, DisplayOrder: 27},
	}

	created := 0
	for i := range governorates {
		res := db.Where("code = ?", governorates[i].Code).FirstOrCreate(&governorates[i])
		if res.Error != nil {
			log.Fatal("Failed to seed governorates: ", res.Error)
		}
		created += int(res.RowsAffected)
	}
	fmt.Printf("✓ Governorates: %d created, %d existing\n", created, len(governorates)-created)
}

func seedParties(db *gorm.DB) {
	parties := []models.Party{
		{Name: "حزب الوفد", NameEN: "Al-Wafd Party", Abbreviation: "الوفد", Description: "حزب سياسي مصري تأسس عام 1919", FoundedDate: date("1919-01-01"), Color: "#0066CC", Enabled: true, DisplayOrder: 1},
		{Name: "الحزب الوطني الديمقراطي", NameEN: "National Democratic Party", Abbreviation: "الوطني", Description: "حزب سياسي مصري", Color: "#FF6600", Enabled: true, DisplayOrder: 2},
		{Name: "حزب النور", NameEN: "Al-Nour Party", Abbreviation: "النور", Description: "حزب سياسي إسلامي", Color: "#FFD700", Enabled: true, DisplayOrder: 3},
		{Name: "حزب المصريين الأحرار", NameEN: "Free Egyptians Party", Abbreviation: "المصريين الأحرار", Description: "حزب ليبرالي مصري", Color: "#800080", Enabled: true, DisplayOrder: 4},
		{Name: "حزب الغد", NameEN: "Al-Ghad Party", Abbreviation: "الغد", Description: "حزب سياسي ليبرالي", Color: "#008000", Enabled: true, DisplayOrder: 5},
		{Name: "حزب التجمع", NameEN: "Tagammu Party", Abbreviation: "التجمع", Description: "حزب التجمع الوطني التقدمي الوحدوي", Color: "#DC143C", Enabled: true, DisplayOrder: 6},
		{Name: "حزب الكرامة", NameEN: "Al-Karama Party", Abbreviation: "الكرامة", Description: "حزب الكرامة المصري", Color: "#8B4513", Enabled: true, DisplayOrder: 7},
		{Name: "حزب الإصلاح والتنمية", NameEN: "Reform and Development Party", Abbreviation: "الإصلاح والتنمية", Description: "حزب سياسي مصري", Color: "#4169E1", Enabled: true, DisplayOrder: 8},
		{Name: "حزب الشعب الجمهوري", NameEN: "Republican People's Party", Abbreviation: "الشعب الجمهوري", Description: "حزب سياسي مصري", Color: "#FF1493", Enabled: true, DisplayOrder: 9},
		{Name: "حزب مستقبل وطن", NameEN: "Future of a Nation Party", Abbreviation: "مستقبل وطن", Description: "حزب سياسي مصري", Color: "#FF4500", Enabled: true, DisplayOrder: 10},
		{Name: "حزب الحرية المصري", NameEN: "Egyptian Freedom Party", Abbreviation: "الحرية المصري", Description: "حزب سياسي مصري", Color: "#32CD32", Enabled: true, DisplayOrder: 11},
		{Name: "حزب الوسط", NameEN: "Al-Wasat Party", Abbreviation: "الوسط", Description: "حزب الوسط المصري", Color: "#9932CC", Enabled: true, DisplayOrder: 12},
		{Name: "مستقل", NameEN: "Independent", Abbreviation: "مستقل", Description: "مرشحون مستقلون غير منتمين لأحزاب", Color: "#808080", Enabled: true, DisplayOrder: 13},
	}

	created := 0
	for i := range parties {
		res := db.Where("abbreviation = ?", parties[i].Abbreviation).FirstOrCreate(&parties[i])
		if res.Error != nil {
			log.Fatal("Failed to seed parties: ", res.Error)
		}
		created += int(res.RowsAffected)
	}
	fmt.Printf("✓ Parties: %d created, %d existing\n", created, len(parties)-created)
}

func seedComplaintTypes(db *gorm.DB) {
	types := []models.ComplaintType{
		{Name: "البنية التحتية والطرق", NameEN: "Infrastructure and Roads", Category: models.CategoryInfrastructure, Icon: "🛣️", Color: "#FF6B35", PriorityLevel: models.PriorityMedium, EstimatedResolutionDays: 45, RequiresAttachments: true, MaxAttachments: 5, DisplayOrder: 1},
		{Name: "الخدمات الصحية", NameEN: "Health Services", Category: models.CategoryHealth, Icon: "🏥", Color: "#E74C3C", PriorityLevel: models.PriorityHigh, EstimatedResolutionDays: 15, RequiresAttachments: true, MaxAttachments: 3, DisplayOrder: 2},
		{Name: "التعليم والمدارس", NameEN: "Education and Schools", Category: models.CategoryEducation, Icon: "🏫", Color: "#3498DB", PriorityLevel: models.PriorityMedium, EstimatedResolutionDays: 30, MaxAttachments: 2, DisplayOrder: 3},
		{Name: "المياه والصرف الصحي", NameEN: "Water and Sanitation", Category: models.CategoryUtilities, Icon: "💧", Color: "#1ABC9C", PriorityLevel: models.PriorityHigh, EstimatedResolutionDays: 20, RequiresAttachments: true, MaxAttachments: 4, DisplayOrder: 4},
		{Name: "النقل والمواصلات", NameEN: "Transportation", Category: models.CategoryTransportation, Icon: "🚌", Color: "#9B59B6", PriorityLevel: models.PriorityMedium, EstimatedResolutionDays: 25, MaxAttachments: 3, DisplayOrder: 5},
		{Name: "البيئة والنظافة", NameEN: "Environment and Cleanliness", Category: models.CategoryEnvironment, Icon: "🌱", Color: "#27AE60", PriorityLevel: models.PriorityMedium, EstimatedResolutionDays: 15, RequiresAttachments: true, MaxAttachments: 5, DisplayOrder: 6},
		{Name: "الخدمات الاجتماعية", NameEN: "Social Services", Category: models.CategorySocial, Icon: "👥", Color: "#F39C12", PriorityLevel: models.PriorityMedium, EstimatedResolutionDays: 35, MaxAttachments: 2, DisplayOrder: 7},
		{Name: "الشؤون الاقتصادية", NameEN: "Economic Affairs", Category: models.CategoryEconomic, Icon: "💰", Color: "#E67E22", PriorityLevel: models.PriorityLow, EstimatedResolutionDays: 60, RequiresAttachments: true, MaxAttachments: 10, DisplayOrder: 8},
		{Name: "الشؤون القانونية", NameEN: "Legal Affairs", Category: models.CategoryLegal, Icon: "⚖️", Color: "#34495E", PriorityLevel: models.PriorityHigh, EstimatedResolutionDays: 90, RequiresAttachments: true, MaxAttachments: 15, DisplayOrder: 9},
		{Name: "الأمن والسلامة", NameEN: "Security and Safety", Category: models.CategorySecurity, Icon: "🛡️", Color: "#C0392B", PriorityLevel: models.PriorityUrgent, EstimatedResolutionDays: 7, RequiresAttachments: true, MaxAttachments: 8, DisplayOrder: 10},
		{Name: "الإسكان والعقارات", NameEN: "Housing and Real Estate", Category: models.CategoryHousing, Icon: "🏠", Color: "#8E44AD", PriorityLevel: models.PriorityMedium, EstimatedResolutionDays: 45, RequiresAttachments: true, MaxAttachments: 7, DisplayOrder: 11},
		{Name: "الخدمات الإدارية", NameEN: "Administrative Services", Category: models.CategoryAdministrative, Icon: "📋", Color: "#2C3E50", PriorityLevel: models.PriorityLow, EstimatedResolutionDays: 21, MaxAttachments: 3, DisplayOrder: 12},
		{Name: "الكهرباء والطاقة", NameEN: "Electricity and Energy", Category: models.CategoryUtilities, Icon: "⚡", Color: "#F1C40F", PriorityLevel: models.PriorityHigh, EstimatedResolutionDays: 10, RequiresAttachments: true, MaxAttachments: 4, DisplayOrder: 13},
		{Name: "شكاوى أخرى", NameEN: "Other Complaints", Category: models.CategoryOther, Icon: "📝", Color: "#95A5A6", PriorityLevel: models.PriorityMedium, EstimatedResolutionDays: 30, MaxAttachments: 5, DisplayOrder: 14},
	}

	created := 0
	for i := range types {
		types[i].TargetCouncil = models.CouncilParliament
		types[i].Enabled = true
		types[i].Public = true
		res := db.Where("name = ?", types[i].Name).FirstOrCreate(&types[i])
		if res.Error != nil {
			log.Fatal("Failed to seed complaint types: ", res.Error)
		}
		created += int(res.RowsAffected)
	}
	fmt.Printf("✓ Complaint types: %d created, %d existing\n", created, len(types)-created)
}

func seedPermissions(db *gorm.DB) map[string]models.Permission {
	catalog := []models.Permission{
		{Code: models.PermViewAccounts, Description: "View administrative accounts"},
		{Code: models.PermManageAccounts, Description: "Create, edit, lock and deactivate accounts"},
		{Code: models.PermManageRoles, Description: "Manage roles and permission sets"},
		{Code: models.PermManageReferenceData, Description: "Manage governorates, parties and complaint types"},
		{Code: models.PermManageSettings, Description: "Manage platform settings"},
		{Code: models.PermViewActivityLog, Description: "Read the audit trail"},
		{Code: models.PermViewStatistics, Description: "View dashboards and statistics"},
		{Code: models.PermManageSystem, Description: "Maintenance operations such as backups"},
		{Code: "view_complaints", Description: "View citizen complaints (complaints service)"},
		{Code: "manage_complaints", Description: "Manage citizen complaints (complaints service)"},
		{Code: "moderate_content", Description: "Review and moderate content (content service)"},
		{Code: "manage_users", Description: "Manage citizen users (users service)"},
	}

	perms := make(map[string]models.Permission, len(catalog))
	for i := range catalog {
		res := db.Where("code = ?", catalog[i].Code).FirstOrCreate(&catalog[i])
		if res.Error != nil {
			log.Fatal("Failed to seed permissions: ", res.Error)
		}
		perms[catalog[i].Code] = catalog[i]
	}
	fmt.Printf("✓ Permissions: %d in catalog\n", len(catalog))
	return perms
}

func seedRoles(db *gorm.DB, perms map[string]models.Permission) {
	pick := func(codes ...string) []models.Permission {
		out := make([]models.Permission, 0, len(codes))
		for _, code := range codes {
			p, ok := perms[code]
			if !ok {
				log.Fatalf("unknown permission code in role seed: %s", code)
			}
			out = append(out, p)
		}
		return out
	}

	allCodes := make([]string, 0, len(perms))
	for code := range perms {
		allCodes = append(allCodes, code)
	}

	roles := []models.Role{
		{Name: "مدير عام", NameEN: "Super Admin", Slug: "super_admin", Description: "صلاحيات كاملة على النظام", IsSystemRole: true, Permissions: pick(allCodes...)},
		{Name: "مشرف المحتوى", NameEN: "Content Moderator", Slug: "content_moderator", Description: "إدارة ومراجعة المحتوى والإنجازات", IsSystemRole: true, Permissions: pick("moderate_content", models.PermViewStatistics)},
		{Name: "مشرف الشكاوى", NameEN: "Complaint Manager", Slug: "complaint_manager", Description: "إدارة الشكاوى وأنواعها", IsSystemRole: true, Permissions: pick("view_complaints", "manage_complaints", models.PermManageReferenceData)},
		{Name: "مشرف المستخدمين", NameEN: "User Manager", Slug: "user_manager", Description: "إدارة المستخدمين والأحزاب", IsSystemRole: true, Permissions: pick("manage_users", models.PermViewAccounts, models.PermManageAccounts, models.PermManageReferenceData)},
		{Name: "عارض الإحصائيات", NameEN: "Statistics Viewer", Slug: "statistics_viewer", Description: "عرض الإحصائيات والتقارير فقط", IsSystemRole: true, Permissions: pick(models.PermViewStatistics)},
		{Name: "مدير النظام", NameEN: "System Admin", Slug: "system_admin", Description: "إدارة إعدادات النظام والخوادم", IsSystemRole: true, Permissions: pick(models.PermManageSettings, models.PermManageSystem, models.PermViewActivityLog)},
		{Name: "محلل البيانات", NameEN: "Data Analyst", Slug: "data_analyst", Description: "تحليل البيانات وإنشاء التقارير", Permissions: pick(models.PermViewStatistics, models.PermViewActivityLog)},
		{Name: "وكيل الدعم", NameEN: "Support Agent", Slug: "support_agent", Description: "تقديم الدعم الفني للمستخدمين", Permissions: pick(models.PermViewAccounts, "view_complaints")},
	}

	created := 0
	for i := range roles {
		roles[i].Enabled = true
		res := db.Where("slug = ?", roles[i].Slug).FirstOrCreate(&roles[i])
		if res.Error != nil {
			log.Fatal("Failed to seed roles: ", res.Error)
		}
		created += int(res.RowsAffected)
	}
	fmt.Printf("✓ Roles: %d created, %d existing\n", created, len(roles)-created)
}

func seedSettings(db *gorm.DB) {
	settings := []models.Setting{
		{Key: "site_name", Name: "اسم الموقع", Type: models.SettingString, Value: "نائبك", DefaultValue: "نائبك", Public: true, Category: "general", DisplayOrder: 1},
		{Key: "site_description", Name: "وصف الموقع", Type: models.SettingText, Value: "منصة التواصل بين المواطنين والنواب", DefaultValue: "منصة التواصل بين المواطنين والنواب", Public: true, Category: "general", DisplayOrder: 2},
		{Key: "contact_email", Name: "بريد التواصل", Type: models.SettingEmail, Value: "info@naebak.com", DefaultValue: "info@naebak.com", Public: true, Category: "contact", DisplayOrder: 3},
		{Key: "support_phone", Name: "هاتف الدعم", Type: models.SettingString, Value: "+201234567890", DefaultValue: "+201234567890", Public: true, Category: "contact", DisplayOrder: 4},
		{Key: "max_complaint_length", Name: "الحد الأقصى لطول الشكوى", Type: models.SettingInteger, Value: "1500", DefaultValue: "1500", Category: "complaints", DisplayOrder: 5},
		{Key: "max_message_length", Name: "الحد الأقصى لطول الرسالة", Type: models.SettingInteger, Value: "500", DefaultValue: "500", Category: "messaging", DisplayOrder: 6},
		{Key: "enable_ratings", Name: "تفعيل التقييمات", Type: models.SettingBoolean, Value: "true", DefaultValue: "true", Category: "features", DisplayOrder: 7},
		{Key: "maintenance_mode", Name: "وضع الصيانة", Type: models.SettingBoolean, Value: "false", DefaultValue: "false", Category: "system", DisplayOrder: 8},
		{Key: "primary_color", Name: "اللون الأساسي", Type: models.SettingColor, Value: "#007bff", DefaultValue: "#007bff", Public: true, Category: "appearance", DisplayOrder: 9},
		{Key: "secondary_color", Name: "اللون الثانوي", Type: models.SettingColor, Value: "#6c757d", DefaultValue: "#6c757d", Public: true, Category: "appearance", DisplayOrder: 10},
	}

	created := 0
	for i := range settings {
		settings[i].Editable = true
		res := db.Where("key = ?", settings[i].Key).FirstOrCreate(&settings[i])
		if res.Error != nil {
			log.Fatal("Failed to seed settings: ", res.Error)
		}
		created += int(res.RowsAffected)
	}
	fmt.Printf("✓ Settings: %d created, %d existing\n", created, len(settings)-created)
}

// seedDefaultAdmin creates the initial super admin when the accounts table
// is empty. Credentials come from NAEBAK_DEFAULT_ADMIN_USERNAME / _EMAIL /
// _PASSWORD; without a password no account is created.
func seedDefaultAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Account{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to count accounts: ", err)
	}
	if count > 0 {
		fmt.Println("✓ Accounts already exist, skipping default admin")
		return
	}

	password := os.Getenv("NAEBAK_DEFAULT_ADMIN_PASSWORD")
	if password == "" {
		fmt.Println("✗ NAEBAK_DEFAULT_ADMIN_PASSWORD not set, skipping default admin")
		return
	}

	username := os.Getenv("NAEBAK_DEFAULT_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	email := os.Getenv("NAEBAK_DEFAULT_ADMIN_EMAIL")
	if email == "" {
		email = "admin@naebak.com"
	}

	var superAdmin models.Role
	if err := db.Where("slug = ?", "super_admin").First(&superAdmin).Error; err != nil {
		log.Fatal("Super admin role missing: ", err)
	}

	admin := models.Account{
		Username: username,
		Email:    email,
		Name:     "Platform Administrator",
		Enabled:  true,
		Roles:    []models.Role{superAdmin},
	}
	if err := admin.SetPassword(password); err != nil {
		log.Fatal("Failed to hash admin password: ", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create default admin: ", err)
	}
	fmt.Printf("✓ Default admin %q created\n", username)
}
