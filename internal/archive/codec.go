package archive

import "reflect"

// setID writes the store-assigned id back onto a decoded model. Document
// bodies never carry their own id, so it has to be restored after decoding.
func setID(v any, id string) {
	rv := reflect.ValueOf(v).Elem()
	field := rv.FieldByName("ID")
	if field.IsValid() && field.Kind() == reflect.String && field.CanSet() {
		field.SetString(id)
	}
}
