package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pmb/admissions/internal/app/models"
	"github.com/pmb/admissions/internal/pkg/helpers"
)

// ErrRecordNotObject is returned for a sync element that is not a JSON object
var ErrRecordNotObject = errors.New("record must be a JSON object")

// fieldAliases lists, per canonical key, the accepted spellings in precedence order.
// The canonical camelCase key always wins, then snake_case, then the legacy names.
type fieldAliases struct {
	key     string
	aliases []string
}

var applicantFields = []fieldAliases{
	{"registrationNumber", []string{"registration_number", "noReg", "no_reg"}},
	{"fullName", []string{"full_name", "namaLengkap", "nama_lengkap"}},
	{"admissionPath", []string{"admission_path", "jalur"}},
	{"majorChoice1", []string{"major_choice_1", "major_choice1", "jurusan", "pilihanJurusan1"}},
	{"majorChoice2", []string{"major_choice_2", "major_choice2", "pilihanJurusan2"}},
	{"majorChoice3", []string{"major_choice_3", "major_choice3", "pilihanJurusan3"}},
	{"majorChoice4", []string{"major_choice_4", "major_choice4", "pilihanJurusan4"}},
	{"email", nil},
	{"phone", []string{"hp"}},
	{"graduationYear", []string{"graduation_year", "tahunLulus", "tahun_lulus"}},
	{"gender", []string{"jenisKelamin", "jenis_kelamin"}},
	{"schoolOrigin", []string{"school_origin", "asalSekolah", "asal_sekolah"}},
	{"schoolMajor", []string{"school_major", "jurusanSekolah", "jurusan_sekolah"}},
	{"ranking", nil},
	{"parentName", []string{"parent_name", "namaOrangTua", "nama_orang_tua"}},
	{"parentPhone", []string{"parent_phone", "hpOrangTua", "hp_orang_tua"}},
	{"religion", []string{"agama"}},
	{"colorBlind", []string{"color_blind", "butaWarna", "buta_warna"}},
	{"province", []string{"provinsi"}},
	{"city", []string{"kotaKabupaten", "kota_kabupaten"}},
	{"village", []string{"kelurahan"}},
	{"district", []string{"kecamatan"}},
	{"postalCode", []string{"postal_code", "kodePos", "kode_pos"}},
	{"homeAddress", []string{"home_address", "alamatRumah", "alamat_rumah"}},
	{"agent", nil},
	{"loaPublished", []string{"loa_published"}},
	{"loaDate", []string{"loa_date", "tanggalLoa", "tanggal_loa"}},
	{"nim", nil},
	{"convertedAt", []string{"converted_at"}},
}

var studyProgramFields = []fieldAliases{
	{"code", []string{"kode"}},
	{"programId", []string{"program_id", "idProdi", "id_prodi"}},
	{"name", []string{"namaProdi", "nama_prodi"}},
	{"nimFormat", []string{"nim_format", "formatNim", "format_nim"}},
	{"levelId", []string{"level_id", "idJenjang", "id_jenjang"}},
	{"levelName", []string{"level_name", "namaJenjang", "nama_jenjang"}},
	{"facultyId", []string{"faculty_id", "idFakultas", "id_fakultas"}},
	{"facultyName", []string{"faculty_name", "namaFakultas", "nama_fakultas"}},
	{"isActive", []string{"is_active"}},
}

// keys whose blank string values mean "absent" rather than a parse error
var timeKeys = map[string]bool{"loaDate": true, "convertedAt": true}

// normalizeKeys folds every accepted spelling onto its canonical key.
// nil values count as absent so that a later alias can still supply the field.
func normalizeKeys(record map[string]interface{}, fields []fieldAliases) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		for _, name := range append([]string{f.key}, f.aliases...) {
			v, ok := record[name]
			if !ok || v == nil {
				continue
			}
			if s, isString := v.(string); isString && timeKeys[f.key] && strings.TrimSpace(s) == "" {
				continue
			}
			out[f.key] = v
			break
		}
	}
	return out
}

// flexibleTimeHook parses string timestamps into time.Time
func flexibleTimeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	return helpers.ParseFlexibleTime(strings.TrimSpace(data.(string)))
}

func decodeInto(input map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       flexibleTimeHook,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// parseRecord decodes one raw sync element into a generic object
func parseRecord(raw json.RawMessage) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrRecordNotObject
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var record map[string]interface{}
	if err := dec.Decode(&record); err != nil {
		return nil, ErrRecordNotObject
	}
	return record, nil
}

// DecodeApplicantRecord maps a loosely keyed record onto an ApplicantPatch
func DecodeApplicantRecord(record map[string]interface{}) (*models.ApplicantPatch, error) {
	patch := &models.ApplicantPatch{}
	if err := decodeInto(normalizeKeys(record, applicantFields), patch); err != nil {
		return nil, err
	}
	return patch, nil
}

// DecodeStudyProgramRecord maps a loosely keyed record onto a StudyProgramPatch
func DecodeStudyProgramRecord(record map[string]interface{}) (*models.StudyProgramPatch, error) {
	patch := &models.StudyProgramPatch{}
	if err := decodeInto(normalizeKeys(record, studyProgramFields), patch); err != nil {
		return nil, err
	}
	return patch, nil
}

// DecodeStudyProgramJSON decodes a request body through the same alias mapping used by sync
func DecodeStudyProgramJSON(raw json.RawMessage) (*models.StudyProgramPatch, error) {
	record, err := parseRecord(raw)
	if err != nil {
		return nil, err
	}
	return DecodeStudyProgramRecord(record)
}

// rawKey extracts a best-effort identifier of a record for error reporting
func rawKey(record map[string]interface{}, fields []fieldAliases, keys ...string) string {
	normalized := normalizeKeys(record, fields)
	for _, k := range keys {
		if v, ok := normalized[k]; ok {
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}
	return ""
}
