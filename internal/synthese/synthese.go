package synthese

import (
	"errors"
	"time"

	"audit-remediation/internal/database"
	"audit-remediation/internal/models"

	"gorm.io/gorm"
)

// Synthesize собирает сводку по всем констатам аудита и целиком замещает
// кэш в поле synthese записи аудита. Несуществующий аудит — это не ошибка,
// а "нечего сводить": возвращается nil.
//
// Агрегатор описательный, а не валидирующий: незнакомые значения type и
// criticite попадают в раскладки под своим строковым ключом.
func Synthesize(auditID uint) (*models.Synthese, error) {
	var audit models.Audit
	if err := database.DB.First(&audit, auditID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var constats []models.Constat
	if err := database.DB.Where("audit_id = ?", auditID).Find(&constats).Error; err != nil {
		return nil, err
	}

	result := models.Synthese{
		RepartitionParType:      map[string]int{},
		RepartitionParCriticite: map[string]int{},
		ComputedAt:              time.Now(),
	}

	result.TotalConstats = len(constats)

	for _, ct := range constats {
		switch ct.Type {
		case models.ConstatNCMajeure, models.ConstatType("critical"):
			// "critical" из старых данных считаем мажорным несоответствием
			result.ConstatsMajeurs++
		case models.ConstatNCMineure:
			result.ConstatsMineurs++
		}

		result.RepartitionParType[string(ct.Type)]++

		if ct.Criticite != "" {
			result.RepartitionParCriticite[string(ct.Criticite)]++
		}
	}

	// денормализованный счётчик, без выборки самих рекомендаций
	if len(constats) > 0 {
		ids := make([]uint, 0, len(constats))
		for _, ct := range constats {
			ids = append(ids, ct.ID)
		}
		var recCount int64
		if err := database.DB.Model(&models.Recommandation{}).
			Where("constat_id IN ?", ids).
			Count(&recCount).Error; err != nil {
			return nil, err
		}
		result.Recommandations = int(recCount)
	}

	// пересборка целиком замещает прежний кэш
	if err := database.DB.Model(&audit).Select("synthese").Updates(models.Audit{Synthese: &result}).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
