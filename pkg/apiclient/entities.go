package apiclient

import "github.com/noah-isme/clinic-admin-api/internal/models"

func (c *Client) Clinics() *Resource[models.Clinic] {
	return NewResource[models.Clinic](c, "/clinics")
}

func (c *Client) Patients() *Resource[models.Patient] {
	return NewResource[models.Patient](c, "/patients")
}

func (c *Client) Doctors() *Resource[models.Doctor] {
	return NewResource[models.Doctor](c, "/doctors")
}

func (c *Client) Nurses() *Resource[models.Nurse] {
	return NewResource[models.Nurse](c, "/nurses")
}

func (c *Client) Appointments() *Resource[models.Appointment] {
	return NewResource[models.Appointment](c, "/appointments")
}

func (c *Client) Referrals() *Resource[models.Referral] {
	return NewResource[models.Referral](c, "/referrals")
}

func (c *Client) Invoices() *Resource[models.Invoice] {
	return NewResource[models.Invoice](c, "/invoices")
}
