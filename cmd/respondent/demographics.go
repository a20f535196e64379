package main

import (
	"strconv"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
)

type choiceField struct {
	label  string
	values []string
	set    func(d *entity.Demographics, v string)
}

var demographicFields = []choiceField{
	{"Возраст", []string{"under 10", "10-19", "20-29", "30-39", "40-49", "50-59", "60-69", "70+"},
		func(d *entity.Demographics, v string) { d.AgeGroup = v }},
	{"Пол", []string{"male", "female", "other"},
		func(d *entity.Demographics, v string) { d.Gender = v }},
	{"Образование", []string{"elementary", "middle school", "high school", "university", "graduate"},
		func(d *entity.Demographics, v string) { d.Education = v }},
	{"Зрение", []string{"totally blind", "severe impairment", "moderate impairment", "mild impairment", "no impairment"},
		func(d *entity.Demographics, v string) { d.VisionStatus = v }},
	{"Владение шрифтом Брайля", []string{"yes", "no", "learning"},
		func(d *entity.Demographics, v string) { d.BrailleAbility = v }},
	{"Самостоятельное передвижение", []string{"yes", "no", "learning"},
		func(d *entity.Demographics, v string) { d.MobilityAbility = v }},
	{"Как часто рисуете", []string{"never", "rarely", "sometimes", "often"},
		func(d *entity.Demographics, v string) { d.DrawingFrequency = v }},
	{"Опыт посещения музеев", []string{"never", "rarely", "sometimes", "often"},
		func(d *entity.Demographics, v string) { d.MuseumExperience = v }},
}

// askDemographics заполняет анкету. Имя и возраст потери зрения необязательны.
func askDemographics(t *terminal) (entity.Demographics, error) {
	var d entity.Demographics

	name, err := t.ask("Имя (Enter - пропустить)")
	if err != nil {
		return d, err
	}
	if name != "" {
		d.Name = &name
	}

	for _, f := range demographicFields {
		i, err := t.choose(f.label, f.values, false)
		if err != nil {
			return d, err
		}
		f.set(&d, f.values[i])
	}

	for {
		raw, err := t.ask("Возраст потери зрения (Enter - пропустить)")
		if err != nil {
			return d, err
		}
		if raw == "" {
			break
		}
		age, convErr := strconv.Atoi(raw)
		if convErr == nil && age >= 0 && age <= 120 {
			d.InjuryAge = &age
			break
		}
		t.printf("Введите число от 0 до 120\n")
	}
	return d, nil
}
