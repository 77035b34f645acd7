package main

import (
	"github.com/protomem/preach-tracker/internal/validator"
)

// Validation rules

func validateCredentials(v *validator.Validator, input requestCredentials) {
	v.CheckStruct(input)
	v.CheckField(validator.NotBlank(input.Login), "login", "cannot be blank")
}

func validateRequestUpdateChurch(v *validator.Validator, input requestUpdateChurch) {
	if input.Name != nil {
		validateChurchName(v, *input.Name)
	}
	if input.Timezone != nil {
		validateTimezone(v, *input.Timezone)
	}
}

func validateRequestUpdateSession(v *validator.Validator, input requestUpdateSession) {
	if input.Church.Value != nil {
		validateID(v, "church_id", *input.Church.Value)
	}
	if input.Preacher.Value != nil {
		validateID(v, "preacher_id", *input.Preacher.Value)
	}
	if input.ServiceType.Value != nil {
		v.CheckField(validator.MaxRunes(*input.ServiceType.Value, 255), "service_type", "must not be more than 255 characters")
	}
}

func validateRequestUpdatePreacher(v *validator.Validator, input requestUpdatePreacher) {
	if input.Name.Set {
		v.CheckField(input.Name.Value != nil, "name", "cannot be null")
		if input.Name.Value != nil {
			validatePreacherName(v, *input.Name.Value)
		}
	}
	if input.Church.Value != nil {
		validateID(v, "church_id", *input.Church.Value)
	}
	if input.AvatarURL.Value != nil {
		validateAvatarURL(v, *input.AvatarURL.Value)
	}
}

func validateChurchName(v *validator.Validator, name string) {
	v.CheckField(validator.NotBlank(name), "name", "cannot be blank")
	v.CheckField(validator.MaxRunes(name, 255), "name", "must not be more than 255 characters")
}

func validatePreacherName(v *validator.Validator, name string) {
	v.CheckField(validator.NotBlank(name), "name", "cannot be blank")
	v.CheckField(validator.MaxRunes(name, 255), "name", "must not be more than 255 characters")
}

func validateID(v *validator.Validator, field, id string) {
	v.CheckField(validator.MaxRunes(id, 36), field, "must not be more than 36 characters")
}

func validateTimezone(v *validator.Validator, tz string) {
	v.CheckField(validator.IsTimezone(tz), "timezone", "must be a valid IANA time zone")
}

func validateAvatarURL(v *validator.Validator, url string) {
	v.CheckField(url == "" || validator.IsURL(url), "avatar_url", "must be an absolute URL")
}
